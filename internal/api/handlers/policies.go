package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Misakavorst/drl-quant-trading/internal/api/models"
)

// PolicyHandler handles policy-related requests
type PolicyHandler struct{}

// NewPolicyHandler creates a new policy handler
func NewPolicyHandler() *PolicyHandler {
	return &PolicyHandler{}
}

// ListPolicies handles GET /api/v1/policies
func (h *PolicyHandler) ListPolicies(c *gin.Context) {
	policies := []models.PolicyInfo{
		{
			Name:        "buy-and-hold",
			Description: "Spends the full starting cash across all assets on the first step and never trades again.",
		},
		{
			Name:        "hold",
			Description: "Never trades. Useful as a cash baseline.",
		},
		{
			Name:        "random",
			Description: "Uniform random actions in [-1, 1] per asset.",
			Parameters: []models.ParameterInfo{
				{
					Name:        "seed",
					Type:        "int",
					Description: "Seed for the action stream. Same seed reproduces the same trades.",
					Default:     0,
				},
			},
		},
		{
			Name:        "moving-average",
			Description: "Uniform random actions scaled to [-0.5, 0.5]. A lower-turnover random baseline.",
			Parameters: []models.ParameterInfo{
				{
					Name:        "seed",
					Type:        "int",
					Description: "Seed for the action stream.",
					Default:     0,
				},
			},
		},
		{
			Name:        "equal-weight",
			Description: "Uniform random actions scaled to [-0.3, 0.3]. The gentlest random baseline.",
			Parameters: []models.ParameterInfo{
				{
					Name:        "seed",
					Type:        "int",
					Description: "Seed for the action stream.",
					Default:     0,
				},
			},
		},
		{
			Name:        "onnx",
			Description: "Runs a trained actor network exported to ONNX. The model maps one observation to one action vector.",
			Parameters: []models.ParameterInfo{
				{
					Name:        "model_path",
					Type:        "string",
					Description: "Path to the .onnx model file on the server.",
				},
			},
		},
	}

	c.JSON(http.StatusOK, gin.H{"policies": policies})
}
