package main

import (
	"flag"

	"github.com/SeakMengs/CadetTrack/internal/config"
	"github.com/SeakMengs/CadetTrack/internal/database"
	"github.com/SeakMengs/CadetTrack/internal/env"
	"github.com/SeakMengs/CadetTrack/internal/model"
	"github.com/SeakMengs/CadetTrack/internal/util"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func init() {
	env.LoadEnv(".env")
}

// Role checks repeated at the database level so rows written outside the api
// cannot assign a cadet as curator or the other way round.
var roleTriggers = []string{
	`CREATE OR REPLACE FUNCTION check_user_role() RETURNS trigger AS $$
	DECLARE
		actual text;
	BEGIN
		EXECUTE format('SELECT role FROM users WHERE id = $1.%I', TG_ARGV[0]) INTO actual USING NEW;
		IF actual IS DISTINCT FROM TG_ARGV[1] THEN
			RAISE EXCEPTION '%.% must reference a % user', TG_TABLE_NAME, TG_ARGV[0], TG_ARGV[1];
		END IF;
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql`,
	`DROP TRIGGER IF EXISTS check_curator_role ON projects`,
	`CREATE TRIGGER check_curator_role BEFORE INSERT OR UPDATE OF curator_id ON projects
		FOR EACH ROW EXECUTE FUNCTION check_user_role('curator_id', 'curator')`,
	`DROP TRIGGER IF EXISTS check_cadet_role ON tasks`,
	`CREATE TRIGGER check_cadet_role BEFORE INSERT OR UPDATE OF cadet_id ON tasks
		FOR EACH ROW EXECUTE FUNCTION check_user_role('cadet_id', 'cadet')`,
}

func seedStatusCodes(db *gorm.DB) error {
	codes := model.TaskStatusCodes()
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "status_code"}},
		DoUpdates: clause.AssignmentColumns([]string{"status_name", "description"}),
	}).Create(&codes).Error
}

func main() {
	withTriggers := flag.Bool("triggers", true, "install role check triggers")
	flag.Parse()

	cfg := config.GetConfig()
	logger := util.NewLogger(cfg.ENV, env.GetString("LOG_LEVEL", ""))
	defer logger.Sync()

	logger.Infof("Database configuration: host=%s port=%s database=%s", cfg.DB.DB_HOST, cfg.DB.DB_PORT, cfg.DB.DB_DATABASE)

	db, err := database.ConnectReturnGormDB(cfg.DB)
	if err != nil {
		logger.Panic(err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS citext`).Error; err != nil {
		logger.Panic(err)
	}

	migrateErr := db.AutoMigrate(&model.TaskStatusCode{}, &model.User{}, &model.Project{}, &model.Task{}, &model.File{})
	if migrateErr != nil {
		logger.Panic(migrateErr)
	}

	if err := seedStatusCodes(db); err != nil {
		logger.Panic(err)
	}
	logger.Info("Task status codes seeded")

	if *withTriggers {
		for _, stmt := range roleTriggers {
			if err := db.Exec(stmt).Error; err != nil {
				logger.Panic(err)
			}
		}
		logger.Info("Role check triggers installed")
	}

	logger.Info("Migration finished")
}
