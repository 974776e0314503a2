// internal/workers/truth/ingest-contribution/validation.go
package ingestcontribution

import (
	"encoding/json"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "staytruth-engine/internal/common/errors"
)

// contributionSchema is the wire contract for an incoming contribution.
// Every measurement is optional but, when present, must be in range; an
// out-of-range value is rejected outright rather than clamped.
const contributionSchema = `{
  "type": "object",
  "required": ["propertyId", "userId", "bookingId"],
  "properties": {
    "propertyId": {"type": "string", "minLength": 1},
    "userId": {"type": "string", "minLength": 1},
    "bookingId": {"type": "string", "minLength": 1},
    "wifiDownloadMbps": {"type": "number", "minimum": 0, "maximum": 10000},
    "wifiUploadMbps": {"type": "number", "minimum": 0, "maximum": 10000},
    "noiseLevel": {"type": "integer", "minimum": 1, "maximum": 5},
    "hotWaterReliable": {"type": "boolean"},
    "blackoutCurtains": {"type": "boolean"},
    "quietAtNight": {"type": "boolean"},
    "acWorksWell": {"type": "boolean"},
    "workDeskPresent": {"type": "boolean"},
    "overallRating": {"type": "integer", "minimum": 1, "maximum": 5},
    "additionalNotes": {"type": "string", "maxLength": 2000},
    "photoUrls": {
      "type": "array",
      "maxItems": 20,
      "items": {"type": "string", "minLength": 1}
    }
  },
  "additionalProperties": false
}`

var schemaLoader = gojsonschema.NewStringLoader(contributionSchema)

// ValidateInput checks the contribution payload against the schema.
func ValidateInput(input *Input) error {
	raw, err := json.Marshal(input)
	if err != nil {
		return apperrors.NewContributionValidationFailedError(err.Error())
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return apperrors.NewContributionValidationFailedError(err.Error())
	}

	if !result.Valid() {
		var details []string
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return apperrors.NewContributionValidationFailedError(strings.Join(details, "; "))
	}
	return nil
}
