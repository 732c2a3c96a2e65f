package handler

import (
	"sync"

	"github.com/Ye-Yu-Mo/task-view/internal/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	validatorsOnce sync.Once
	validatorsErr  error
)

// RegisterValidators adds the `userrole` and `taskstatus` binding tags to
// gin's validator. It must run before any route using them is served.
func RegisterValidators() error {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		if validatorsErr = v.RegisterValidation("userrole", func(fl validator.FieldLevel) bool {
			return model.Role(fl.Field().String()).Valid()
		}); validatorsErr != nil {
			return
		}
		validatorsErr = v.RegisterValidation("taskstatus", func(fl validator.FieldLevel) bool {
			return model.TaskStatus(fl.Field().String()).Valid()
		})
	})
	return validatorsErr
}
