package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
	"github.com/df07/go-direct-raytracer/pkg/renderer"
	"github.com/df07/go-direct-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType,omitempty"`
	IsLight      bool                   `json:"isLight"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Color        string                 `json:"color,omitempty"` // Display-space hex
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// inspectPixel casts the camera ray through the center of pixel (x, y) and
// returns the nearest hit, or nil when the ray escapes
func inspectPixel(sc *scene.Scene, pixelX, pixelY int) (*geometry.Hit, error) {
	width, height := sc.Dimensions()
	camera, err := renderer.NewCamera(width, height, sc.FieldOfView())
	if err != nil {
		return nil, err
	}
	return sc.CastRay(camera.GetRay(pixelX, pixelY))
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(object geometry.Object) (string, map[string]interface{}) {
	properties := map[string]interface{}{
		"intensity": object.Intensity(),
	}

	switch geom := object.(type) {
	case *geometry.Sphere:
		properties["center"] = pointArray(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Plane:
		properties["center"] = pointArray(geom.Center)
		properties["normal"] = vecArray(geom.Normal)
		return "plane", properties

	default:
		properties["origin"] = pointArray(object.Origin())
		return "unknown", properties
	}
}

// hexColor formats a linear color as a display-space hex string
func hexColor(c core.Color) string {
	rgba := c.ToRGBA()
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

func pointArray(p core.Point) [3]float64 { return [3]float64{p.X(), p.Y(), p.Z()} }
func vecArray(v core.Vec3) [3]float64    { return [3]float64{v.X(), v.Y(), v.Z()} }

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	sc, err := s.createScene(req.Scene, scene.Settings{Width: req.Width, Height: req.Height, FOV: req.FOV})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hit, err := inspectPixel(sc, pixelX, pixelY)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if hit == nil {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	response := InspectResponse{
		Hit:      true,
		IsLight:  hit.IsLight,
		Point:    pointArray(hit.Point),
		Normal:   vecArray(hit.Normal),
		Distance: hit.Distance,
		Color:    hexColor(hit.Color),
	}
	if hit.Object != nil {
		response.GeometryType, response.Properties = extractGeometryInfo(hit.Object)
	}
	writeJSON(w, http.StatusOK, response)
}
