package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenRevoked       ErrCode = "TOKEN_REVOKED"
	ErrAccountDisabled    ErrCode = "ACCOUNT_DISABLED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden           ErrCode = "FORBIDDEN"
	ErrCandidateAccessOnly ErrCode = "CANDIDATE_ACCESS_ONLY"
	ErrAdminAccessOnly     ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidStatus  ErrCode = "INVALID_STATUS"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound      ErrCode = "NOT_FOUND"
	ErrConflict      ErrCode = "CONFLICT"
	ErrEmailTaken    ErrCode = "EMAIL_TAKEN"
	ErrDuplicateLink ErrCode = "DUPLICATE_LINK"

	// ─── Admission ─────────────────────────────────────────────────────
	ErrInvalidUniversity     ErrCode = "INVALID_UNIVERSITY"
	ErrInvalidMajor          ErrCode = "INVALID_MAJOR"
	ErrInvalidMethod         ErrCode = "INVALID_METHOD"
	ErrInvalidSubjectGroup   ErrCode = "INVALID_SUBJECT_GROUP"
	ErrIneligibleCombination ErrCode = "INELIGIBLE_COMBINATION"
	ErrInvalidEmail          ErrCode = "INVALID_EMAIL"
	ErrInvalidDocument       ErrCode = "INVALID_DOCUMENT"
	ErrInvalidExamScores     ErrCode = "INVALID_EXAM_SCORES"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email hoặc mật khẩu không đúng."
	case ErrTokenRequired:
		return "Yêu cầu token xác thực."
	case ErrTokenInvalid:
		return "Token xác thực không hợp lệ."
	case ErrTokenRevoked:
		return "Phiên đăng nhập đã kết thúc. Vui lòng đăng nhập lại."
	case ErrAccountDisabled:
		return "Tài khoản đã bị vô hiệu hóa."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "Bạn không có quyền truy cập tài nguyên này."
	case ErrCandidateAccessOnly:
		return "Chức năng này chỉ dành cho thí sinh."
	case ErrAdminAccessOnly:
		return "Chức năng này chỉ dành cho quản trị viên."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Dữ liệu không hợp lệ. Vui lòng kiểm tra lại."
	case ErrInvalidID:
		return "Định dạng ID không hợp lệ."
	case ErrInvalidPayload:
		return "Nội dung yêu cầu không hợp lệ."
	case ErrInvalidStatus:
		return "Trạng thái hồ sơ không hợp lệ."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Không tìm thấy tài nguyên."
	case ErrConflict:
		return "Tài nguyên đã tồn tại."
	case ErrEmailTaken:
		return "Email đã được sử dụng."
	case ErrDuplicateLink:
		return "Tổ hợp xét tuyển này đã tồn tại cho ngành, phương thức và năm đã chọn."

	// ─── Admission ─────────────────────────────────────────────────────
	case ErrInvalidUniversity:
		return "Trường đại học không hợp lệ hoặc đã ngừng tuyển sinh."
	case ErrInvalidMajor:
		return "Ngành xét tuyển không hợp lệ."
	case ErrInvalidMethod:
		return "Phương thức xét tuyển không hợp lệ."
	case ErrInvalidSubjectGroup:
		return "Tổ hợp môn không hợp lệ."
	case ErrIneligibleCombination:
		return "Tổ hợp xét tuyển không được chấp nhận."
	case ErrInvalidEmail:
		return "Không xác định được email liên hệ."
	case ErrInvalidDocument:
		return "Minh chứng không hợp lệ."
	case ErrInvalidExamScores:
		return "Điểm thi không hợp lệ."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "Vui lòng tải lên tệp."
	case ErrUnsupportedFile:
		return "Định dạng tệp không được hỗ trợ."
	case ErrFileTooLarge:
		return "Kích thước tệp vượt quá giới hạn."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Quá nhiều yêu cầu. Vui lòng thử lại sau."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Đã xảy ra lỗi máy chủ."
	default:
		return "Đã xảy ra lỗi không xác định."
	}
}
