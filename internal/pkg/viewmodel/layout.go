package viewmodel

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/JobFox/internal/pkg/toast"
)

type OpenGraph struct {
	Title       string
	Description string
	URL         string
}

type Layout struct {
	Page            string
	Title           string
	IsDev           bool
	IsError         bool
	Msg             fiber.Map
	Toasts          []toast.Toast
	CSRF            string
	HCaptchaSiteKey string
	OGViewModel     *OpenGraph
}
