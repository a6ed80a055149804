package diagnosis

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kaptinlin/jsonschema"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/okanehq/moneta/internal/content"
	"github.com/okanehq/moneta/internal/models"
)

//go:embed answers.schema.json
var answersSchemaJSON []byte

// compileAnswersSchema compiles the embedded request schema once at startup.
func compileAnswersSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile(answersSchemaJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to compile answers schema: %w", err)
	}
	return schema, nil
}

// SubmitHandler handles POST /api/diagnosis: validates the payload, runs
// scoring and classification, persists the result, and returns it with a
// fresh link code.
func SubmitHandler(db *gorm.DB, cfg *content.DiagnosisConfig) (gin.HandlerFunc, error) {
	schema, err := compileAnswersSchema()
	if err != nil {
		return nil, err
	}

	return func(c *gin.Context) {
		var body map[string]interface{}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{"code": "INVALID_BODY", "message": "request body must be JSON"},
			})
			return
		}

		result := schema.Validate(body)
		if !result.IsValid() {
			var details []string
			for field, evalErr := range result.Errors {
				details = append(details, fmt.Sprintf("%s: %s", field, evalErr.Error()))
			}
			c.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{"code": "INVALID_ANSWERS", "message": strings.Join(details, "; ")},
			})
			return
		}

		// Re-decode through JSON now that the shape is known valid.
		raw, _ := json.Marshal(body["answers"])
		var answers []Answer
		if err := json.Unmarshal(raw, &answers); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{"code": "INVALID_ANSWERS", "message": "answers are malformed"},
			})
			return
		}

		res, err := Run(cfg, answers)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{"code": "INTERNAL_ERROR", "message": "diagnosis failed"},
			})
			return
		}

		scoresJSON, _ := json.Marshal(res.Scores)
		record := models.Diagnosis{
			Type:              res.Type,
			Scores:            datatypes.JSON(scoresJSON),
			Answers:           datatypes.JSON(raw),
			LinkCode:          res.LinkCode,
			LinkCodeExpiresAt: mustParseRFC3339(res.LinkCodeExpiresAt),
		}
		if err := db.Create(&record).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{"code": "INTERNAL_ERROR", "message": "failed to save diagnosis"},
			})
			return
		}

		res.ID = fmt.Sprintf("%d", record.ID)
		c.JSON(http.StatusOK, res)
	}, nil
}

func mustParseRFC3339(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Now().Add(LinkCodeTTL)
	}
	return t
}
