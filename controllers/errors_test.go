package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/restaurant-commands/schema"
	"github.com/yeremiapane/restaurant-commands/services"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: &services.ValidationError{Field: "quantity"}, want: http.StatusUnprocessableEntity},
		{err: &schema.MissingFieldError{Field: "tableId"}, want: http.StatusUnprocessableEntity},
		{err: &schema.FieldTypeError{Field: "status"}, want: http.StatusUnprocessableEntity},
		{err: &services.InvalidTableStateError{TableID: 1}, want: http.StatusConflict},
		{err: &services.InvalidTransitionError{CommandID: 1}, want: http.StatusConflict},
		{err: services.ErrConflict, want: http.StatusConflict},
		{err: &services.ForbiddenError{StaffID: 1}, want: http.StatusForbidden},
		{err: &services.NotFoundError{Entity: "command", ID: 1}, want: http.StatusNotFound},
		{err: fmt.Errorf("load: %w", &services.NotFoundError{Entity: "table", ID: 2}), want: http.StatusNotFound},
		{err: errors.New("disk full"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorStatus(tt.err))
		})
	}
}
