package initializers

import (
	"log"

	"github.com/nexcart/nexcart-api/models"
)

func SyncDatabase() {
	DB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
	)
	log.Println("Database synced successfully.")
}
