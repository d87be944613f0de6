package main

import (
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/dshank05/nextjs-sub001/models"
	"github.com/dshank05/nextjs-sub001/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type errorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorBody struct {
	Status     string        `json:"status"`
	Message    string        `json:"message"`
	Diagnostic string        `json:"diagnostic,omitempty"`
	Details    []errorDetail `json:"details,omitempty"`
}

type listResponse[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

func newListResponse[T, M any](page *models.Page[M], items []T) listResponse[T] {
	return listResponse[T]{
		Items:   items,
		Total:   page.Total,
		Limit:   page.Limit,
		Offset:  page.Offset,
		HasMore: page.HasMore(),
	}
}

func domainStatus(kind models.ErrorKind) (int, string) {
	switch kind {
	case models.ErrorKindValidation:
		return http.StatusBadRequest, "validation_error"
	case models.ErrorKindReferential:
		return http.StatusUnprocessableEntity, "referential_error"
	}
	return http.StatusInternalServerError, "persistence_error"
}

// respondError maps the error onto a status code and the common error body.
func respondError(c *gin.Context, err error) {
	var de *models.DomainError
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &de):
		status, text := domainStatus(de.Kind)
		body := errorBody{Status: text, Message: de.Message}
		if de.Kind == models.ErrorKindPersistence {
			body.Diagnostic = de.Diagnostic()
			_ = c.Error(err)
		} else {
			body.Message = de.Error()
			for _, f := range de.Fields {
				body.Details = append(body.Details, errorDetail{Field: f, Message: de.Message})
			}
		}
		c.JSON(status, body)
	case errors.As(err, &verrs):
		fields := utils.ProcessValidationErrors(err)
		body := errorBody{Status: "validation_error", Message: "invalid input"}
		for field, tag := range fields {
			body.Details = append(body.Details, errorDetail{Field: field, Message: "failed on " + tag})
		}
		sort.Slice(body.Details, func(i, j int) bool { return body.Details[i].Field < body.Details[j].Field })
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, errorBody{Status: "not_found", Message: err.Error()})
	case errors.Is(err, utils.ErrorReferenced):
		c.JSON(http.StatusConflict, errorBody{Status: "conflict", Message: err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, errorBody{
			Status:     "internal_error",
			Message:    "internal server error",
			Diagnostic: err.Error(),
		})
	}
}

func bindJSON(c *gin.Context, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Status: "bad_request", Message: "invalid request body", Diagnostic: err.Error()})
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dest any) bool {
	if err := c.ShouldBindQuery(dest); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Status: "bad_request", Message: "invalid query", Diagnostic: err.Error()})
		return false
	}
	return true
}

func paramId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, errorBody{Status: "bad_request", Message: "invalid id"})
		return 0, false
	}
	return id, true
}
