package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/caresupportcom/care-schedule/backend/internal/config"
	"github.com/caresupportcom/care-schedule/backend/internal/domain"
	"github.com/caresupportcom/care-schedule/backend/internal/repository"
	"github.com/caresupportcom/care-schedule/backend/internal/seed"
	"github.com/caresupportcom/care-schedule/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var days int

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机照护者, 2: 插入随机班次模板, 3: 生成完整演示数据)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.IntVar(&days, "days", 14, "生成演示数据时覆盖未来多少天")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的照护者数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				user, err := utils.GenerateRandomUser(domain.RoleCaregiver, cfg.Seed.User.Password, cfg.Email.UserDomain)
				if err != nil {
					slog.Error("无法生成随机照护者", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateUser(user); err != nil {
					slog.Error("无法插入照护者", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入照护者成功", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的模板数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				tpl := utils.GenerateRandomTemplate()
				if err := repo.CreateTemplate(tpl); err != nil {
					slog.Error("无法插入模板", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入模板成功", slog.Int("count", n-cnt))
		}
	case 3:
		if n <= 0 || days <= 0 {
			slog.Error("请输入合法的照护者数量和天数")
			return
		}
		seed.SeedDemoData(repo, cfg.Seed.User.Password, cfg.Email.UserDomain, n, days)
	default:
		slog.Error("指定的操作非法")
	}
}
