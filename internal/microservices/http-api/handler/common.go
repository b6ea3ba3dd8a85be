package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"pinduca/internal/microservices/http-api/middleware"
	"pinduca/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const internalErrorMessage = "Erro interno do servidor."

var registerOnce sync.Once

// RegisterValidators reports validation errors under json field names and
// adds the comicyear and trimmedemail tags. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("comicyear", func(fl validator.FieldLevel) bool {
			return service.ValidComicYear(int(fl.Field().Int()), time.Now())
		})
		// services trim and lowercase addresses, so surrounding blanks are accepted
		_ = v.RegisterValidation("trimmedemail", func(fl validator.FieldLevel) bool {
			return v.Var(strings.TrimSpace(fl.Field().String()), "email") == nil
		})
	})
}

// bindJSON decodes and validates the body, answering 400 itself on failure.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string][]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = append(details[fe.Field()], fieldMessage(fe))
		}
		c.JSON(http.StatusBadRequest, gin.H{"erro": "Dados inválidos.", "detalhes": details})
		return false
	}

	c.JSON(http.StatusBadRequest, gin.H{"erro": "Corpo da requisição inválido."})
	return false
}

func fieldMessage(fe validator.FieldError) string {
	isText := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "Campo obrigatório."
	case "min":
		if isText {
			return fmt.Sprintf("Deve ter pelo menos %s caracteres.", fe.Param())
		}
		return fmt.Sprintf("Deve ser no mínimo %s.", fe.Param())
	case "max":
		if isText {
			return fmt.Sprintf("Deve ter no máximo %s caracteres.", fe.Param())
		}
		return fmt.Sprintf("Deve ser no máximo %s.", fe.Param())
	case "email", "trimmedemail":
		return "Email inválido."
	case "url":
		return "URL inválida."
	case "comicyear":
		return fmt.Sprintf("O ano deve estar entre %d e %d.", service.MinComicYear, time.Now().Year()+service.MaxYearsAhead)
	default:
		return "Valor inválido."
	}
}

// parseID reads a positive integer path parameter, answering 400 itself on failure.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "ID inválido."})
		return 0, false
	}
	return id, true
}

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindUnauthenticated:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes service errors as {erro, detalhes}. Anything else is
// logged and hidden behind a generic 500.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		body := gin.H{"erro": svcErr.Error()}
		if len(svcErr.Details) > 0 {
			body["detalhes"] = svcErr.Details
		}
		c.JSON(statusFor(svcErr.Kind), body)
		return
	}

	logger.Error("request failed",
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String("request_id", middleware.RequestIDFrom(c)),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"erro": internalErrorMessage})
}
