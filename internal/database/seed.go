package database

import (
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/okanehq/moneta/internal/models"
)

// SeedDevData populates the database with development test data.
// Idempotent: skips if data already exists.
func SeedDevData(db *gorm.DB) error {
	var existingUser models.User
	result := db.Where("line_user_id = ?", "Udev000000000000000000000000000001").First(&existingUser)
	if result.Error == nil {
		log.Println("Seed data already exists, skipping")
		return nil
	}

	diagnosis := models.Diagnosis{
		Type:              "balanced",
		Scores:            datatypes.JSON([]byte(`{"safety":55,"growth":60,"knowledge":50,"action":55}`)),
		Answers:           datatypes.JSON([]byte(`[{"questionId":"q1","optionId":"q1b"},{"questionId":"q2","optionId":"q2b"}]`)),
		LinkCode:          "DEVCODE1",
		LinkCodeExpiresAt: time.Now().Add(24 * time.Hour),
	}
	if err := db.Create(&diagnosis).Error; err != nil {
		return err
	}

	// A mid-drip recipient for step batch testing
	dripUser := models.User{
		LineUserID:  "Udev000000000000000000000000000001",
		Status:      models.UserStatusLinked,
		StepDay:     3,
		DiagnosisID: &diagnosis.ID,
	}
	if err := db.Create(&dripUser).Error; err != nil {
		return err
	}

	// A graduated recipient for digest testing
	learnerDiagnosis := models.Diagnosis{
		Type:              "learner",
		Scores:            datatypes.JSON([]byte(`{"safety":50,"growth":20,"knowledge":25,"action":15}`)),
		Answers:           datatypes.JSON([]byte(`[{"questionId":"q3","optionId":"q3d"}]`)),
		LinkCode:          "DEVCODE2",
		LinkCodeExpiresAt: time.Now().Add(24 * time.Hour),
	}
	if err := db.Create(&learnerDiagnosis).Error; err != nil {
		return err
	}

	digestUser := models.User{
		LineUserID:  "Udev000000000000000000000000000002",
		Status:      models.UserStatusLinked,
		StepDay:     11,
		DiagnosisID: &learnerDiagnosis.ID,
	}
	if err := db.Create(&digestUser).Error; err != nil {
		return err
	}

	day := 2
	deliveryLog := models.DeliveryLog{
		UserID:  dripUser.ID,
		Kind:    models.DeliveryKindStep,
		Day:     &day,
		Content: "Emergency funds",
		Status:  models.DeliveryStatusSent,
	}
	if err := db.Create(&deliveryLog).Error; err != nil {
		return err
	}

	log.Println("Seeded dev data: 2 users, 2 diagnoses, 1 delivery log")
	return nil
}
