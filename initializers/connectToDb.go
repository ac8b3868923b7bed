package initializers

import (
	"log"
	"os"

	"github.com/bwmarrin/snowflake"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

// OrderNode issues the unique IDs used for order numbers.
var OrderNode *snowflake.Node

func ConnectToDB() {
	dsn := os.Getenv("DB_DSN")
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	DB = db
}

func InitOrderNode() {
	node, err := snowflake.NewNode(1)
	if err != nil {
		log.Fatal("Failed to initialize order number node: ", err)
	}
	OrderNode = node
}
