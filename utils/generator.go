package utils

import (
	"math/rand"
	"time"

	"github.com/edukit/quizdesk/models"
	"gorm.io/gorm"
)

const joinCodeLength = 8
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateUniqueJoinCode keeps drawing codes until one is free of the
// groups table.
func GenerateUniqueJoinCode(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, joinCodeLength)
		for i := range b {
			b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
		}
		code := string(b)

		var group models.Group
		err := tx.Where("join_code = ?", code).First(&group).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return code, nil
			}
			return "", err
		}
	}
}
