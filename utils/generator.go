package utils

import (
	"math/rand"
	"time"

	"github.com/MishaalFatima/facultytracker-sub000/models"
	"gorm.io/gorm"
)

const employeeCodeLength = 8
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateUniqueEmployeeCode issues the short code printed on faculty ID
// cards, retrying until it does not collide.
func GenerateUniqueEmployeeCode(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, employeeCodeLength)
		for i := range b {
			b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
		}
		code := string(b)

		var user models.User
		err := tx.Where("employee_code = ?", code).First(&user).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return code, nil
			}
			return "", err
		}
	}
}
