package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceID(t *testing.T) {
	m := &Middleware{}
	app := fiber.New()
	app.Use(m.TraceID())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(GetTraceID(c))
	})

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "generated when missing"},
		{name: "incoming id is reused", incoming: "req-42.edge_1", keep: true},
		{name: "unsafe characters are replaced", incoming: "abc\" injected=1"},
		{name: "oversized id is replaced", incoming: strings.Repeat("a", maxTraceIDLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(TraceIDHeader, tt.incoming)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)

			traceID := resp.Header.Get(TraceIDHeader)
			if tt.keep {
				assert.Equal(t, tt.incoming, traceID)
				return
			}
			_, err = uuid.Parse(traceID)
			assert.NoError(t, err)
		})
	}
}
