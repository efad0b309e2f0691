package ioc

import (
	"log"
	"time"

	"github.com/to404hanga/ctf_checker/config"
	"github.com/to404hanga/ctf_checker/model"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func InitDB() *gorm.DB {
	var cfg config.DBConfig
	UnmarshalConfig(&cfg)

	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Panicf("connect database failed: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Panicf("get sql.DB failed: %v", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	if cfg.AutoMigrate {
		err = db.AutoMigrate(&model.User{}, &model.Team{}, &model.Challenge{}, &model.Pod{}, &model.Submission{})
		if err != nil {
			log.Panicf("auto migrate failed: %v", err)
		}
	}
	return db
}
