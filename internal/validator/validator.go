package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// trans is the singleton English translator for validation errors.
	trans ut.Translator
	once  sync.Once

	idNumberPattern = regexp.MustCompile(`^(\d{9}|\d{12})$`)
	// Mobile numbers: 0 or +84 followed by a 3/5/7/8/9 carrier prefix and 8 digits.
	vnPhonePattern = regexp.MustCompile(`^(0|\+84)(3|5|7|8|9)\d{8}$`)
)

// customTag is a project-specific validation tag with its English message.
type customTag struct {
	tag     string
	fn      govalidator.Func
	message string
}

var customTags = []customTag{
	{"id_number", isIDNumber, "{0} must be a 9 or 12 digit identity number"},
	{"vn_phone", isVNPhone, "{0} must be a valid Vietnamese phone number"},
}

func isIDNumber(fl govalidator.FieldLevel) bool {
	return idNumberPattern.MatchString(fl.Field().String())
}

func isVNPhone(fl govalidator.FieldLevel) bool {
	return vnPhonePattern.MatchString(strings.ReplaceAll(fl.Field().String(), " ", ""))
}

// Setup registers the validator with English translations on Gin's binding engine.
// Safe to call more than once.
func Setup() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*govalidator.Validate)
		if !ok {
			return
		}
		// Use JSON tag name for field names in error messages.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		for _, ct := range customTags {
			_ = v.RegisterValidation(ct.tag, ct.fn)
			message := ct.message
			_ = v.RegisterTranslation(ct.tag, trans,
				func(ut ut.Translator) error { return ut.Add(ct.tag, message, true) },
				func(ut ut.Translator, fe govalidator.FieldError) string {
					t, _ := ut.T(fe.Tag(), fe.Field())
					return t
				},
			)
		}
	})
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name to human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fieldPath(fe)] = fe.Translate(trans)
		}
		return fields
	}

	// Not a validation error (e.g., JSON syntax error).
	fields["detail"] = err.Error()
	return fields
}

// fieldPath drops the root struct name so nested fields read
// "personal_info.id_number" instead of "SubmitApplicationRequest.personal_info.id_number".
func fieldPath(fe govalidator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
