package middleware

import (
	"catalog/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// bodyKey is the fiber.Ctx local holding the decoded JSON body.
const bodyKey = "validatedBody"

// ValidateRequest is a Fiber middleware that runs rules in order and answers 400
// with every violation before the route handler is reached.
func ValidateRequest(rules ...validation.Rule) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := decodeBody(c)
		if err != nil {
			return err
		}

		req := validation.Request{
			Params: c.AllParams(),
			Body:   body,
		}
		if errs := validation.Run(req, rules...); len(errs) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"errors": errs,
			})
		}

		c.Locals(bodyKey, body)
		return c.Next()
	}
}

// Body returns the JSON body decoded by ValidateRequest.
func Body(c *fiber.Ctx) map[string]any {
	if body, ok := c.Locals(bodyKey).(map[string]any); ok {
		return body
	}
	return map[string]any{}
}

// decodeBody reads a JSON object body. Requests without a JSON body yield an empty map.
func decodeBody(c *fiber.Ctx) (map[string]any, error) {
	body := map[string]any{}
	if len(c.Body()) == 0 || !c.Is("json") {
		return body, nil
	}
	if err := c.BodyParser(&body); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid JSON body")
	}
	return body, nil
}
