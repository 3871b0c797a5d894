package content

import (
	"log"

	"github.com/InkwellLabs/Inkwell-Backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "content"); err != nil {
		log.Fatal("Failed to ensure schema content: ", err)
	}

	if err := db.DB.AutoMigrate(
		&Story{}, &Author{}, &Tag{}, &Game{},
		&BlogPost{}, &DirectoryItem{}, &AiTool{},
	); err != nil {
		log.Fatal("Failed to auto-migrate content tables: ", err)
	}
}
