package main

import (
	"errors"
	"log"

	"EventHub/internal/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	dir := pflag.String("dir", "db/migrations", "迁移文件目录")
	down := pflag.Bool("down", false, "回滚全部迁移")
	steps := pflag.Int("steps", 0, "只执行指定步数，负数表示回滚")
	pflag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("加载配置文件失败: %v", err)
	}
	logger := logrus.New()

	m, err := migrate.New("file://"+*dir, cfg.Postgres.DSN)
	if err != nil {
		logger.Fatalf("初始化迁移失败: %v", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.Warnf("关闭迁移失败: source=%v db=%v", srcErr, dbErr)
		}
	}()

	switch {
	case *steps != 0:
		err = m.Steps(*steps)
	case *down:
		err = m.Down()
	default:
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Fatalf("执行迁移失败: %v", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		logger.Fatalf("读取迁移版本失败: %v", err)
	}
	logger.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("数据库迁移完成")
}
