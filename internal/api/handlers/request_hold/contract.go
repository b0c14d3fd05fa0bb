package request_hold

import (
	"context"

	requestHold "github.com/m04kA/SMC-AppointmentService/internal/usecase/request_hold"
)

type RequestHoldUseCase interface {
	Execute(ctx context.Context, req *requestHold.Request) (*requestHold.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
