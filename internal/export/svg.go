package export

import (
	"fmt"
	"strings"

	"github.com/mirrorbox/mirrorbox/backend-go/internal/engine"
	"github.com/mirrorbox/mirrorbox/backend-go/internal/scene"
)

const mirrorStroke = "#9adcff"

// RenderSVG produces a standalone SVG of the scene and its reflection set,
// in the same painter's order the live renderer uses: background, mirror
// lines, virtual images deepest-first, real objects, real viewer.
func RenderSVG(s *scene.Scene, refl *engine.ReflectionSet) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		s.Width, s.Height, s.Width, s.Height)

	if s.Background != "" {
		fmt.Fprintf(&b, `  <rect width="%d" height="%d" fill=%q/>`+"\n", s.Width, s.Height, s.Background)
	}

	for _, cmd := range engine.CompileDrawCommands(s, refl) {
		switch cmd.Op {
		case "mirror":
			fmt.Fprintf(&b, `  <line x1="%g" y1="%g" x2="%g" y2="%g" stroke=%q stroke-width="3"/>`+"\n",
				cmd.X1, cmd.Y1, cmd.X2, cmd.Y2, mirrorStroke)
		case "polygon":
			fmt.Fprintf(&b, `  <polygon points=%q fill=%q fill-opacity="%g"/>`+"\n",
				svgPoints(cmd.Points), cmd.Fill, cmd.Opacity)
		case "circle":
			fmt.Fprintf(&b, `  <circle cx="%g" cy="%g" r="%g" fill=%q fill-opacity="%g"/>`+"\n",
				cmd.X, cmd.Y, cmd.R, cmd.Fill, cmd.Opacity)
		}
	}

	b.WriteString("</svg>\n")
	return []byte(b.String())
}

func svgPoints(points []scene.Point) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = fmt.Sprintf("%g,%g", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}
