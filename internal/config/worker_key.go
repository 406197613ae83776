package config

type WorkerKeyStruct struct {
	EmailQueue string
}

var WorkerKey = &WorkerKeyStruct{
	EmailQueue: "email_queue",
}
