package server

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/saulfrancisco-ruizacevedo/go-neoviz"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators adds the `cypherident` tag to gin's validator. It accepts
// values usable as a node label or relationship type.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		registerErr = v.RegisterValidation("cypherident", func(fl validator.FieldLevel) bool {
			return neoviz.ValidIdentifier(fl.Field().String())
		})
	})
	return registerErr
}
