package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const internalErrorMessage = "internal server error"

// domainFields сопоставляет доменные нарушения полям JSON и тегам правил.
var domainFields = map[error][2]string{
	domain.ErrNameRequired:            {"name", "required"},
	domain.ErrPriceNegative:           {"price", "gte"},
	domain.ErrCustomerNameRequired:    {"customerName", "required"},
	domain.ErrCustomerPhoneRequired:   {"customerPhone", "required"},
	domain.ErrCustomerAddressRequired: {"customerAddress", "required"},
	domain.ErrProductNameRequired:     {"productName", "required"},
	domain.ErrSizeRequired:            {"size", "required"},
	domain.ErrTotalPriceNegative:      {"totalPrice", "gte"},
	domain.ErrStatusInvalid:           {"status", "oneof"},
}

// writeError переводит ошибку сервиса в HTTP-ответ.
func writeError(c *gin.Context, logger *log.Entry, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Fields: fieldsFromDomain(err)})
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		logger.WithError(err).WithFields(log.Fields{
			"method": c.Request.Method,
			"route":  c.FullPath(),
		}).Error("request failed")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: internalErrorMessage})
	}
}

// writeBindError отвечает на ошибку разбора или проверки тела запроса.
func writeBindError(c *gin.Context, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
		return
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make(map[string]string, len(validationErrs))
		for _, fieldErr := range validationErrs {
			fields[fieldErr.Field()] = fieldErr.Tag()
		}
		c.JSON(http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: fields})
		return
	}

	if errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "request body is required"})
		return
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		c.JSON(http.StatusBadRequest, errorResponse{
			Error:  "invalid value for " + typeErr.Field,
			Fields: map[string]string{typeErr.Field: "type"},
		})
		return
	}

	c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func fieldsFromDomain(err error) map[string]string {
	fields := make(map[string]string)
	for sentinel, field := range domainFields {
		if errors.Is(err, sentinel) {
			fields[field[0]] = field[1]
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
