package bootstrap

import (
	"gatekeeper/internal/config"
	"gatekeeper/internal/database"
)

func Setup() {
	config.ReadSettings()
	database.SetupDB()
}
