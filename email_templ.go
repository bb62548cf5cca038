package lettermint

import (
	"context"
	"strings"

	"github.com/a-h/templ"
)

// RenderHTML renders c and uses the output as the HTML body.
// On failure the receiver is returned unchanged together with the error.
func (e Email) RenderHTML(ctx context.Context, c templ.Component) (Email, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return e, validationError(CodeInvalidContent, "render html template", err)
	}
	return e.HTML(sb.String()), nil
}
