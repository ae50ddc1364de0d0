package main

import (
	"context"
	"log"
	"net/http"

	"testhub/account"
	"testhub/bizerror"
	"testhub/domain"
	"testhub/event"
	"testhub/persistence"
	"testhub/servehttp"
	"testhub/session"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("service start")

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		log.Fatalf("parse database config failed %v\n", err)
	}

	// create database (no conflict)
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			log.Fatalf("failed to prepare database %v\n", err)
		}
	}

	// connect database
	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		log.Fatalf("database connection failed %v\n", err)
	}
	defer ds.Stop()
	persistence.ActiveDataSourceManager = ds

	// database migration (race condition)
	err = ds.GormDB(context.Background()).AutoMigrate(
		&account.User{},
		&domain.Organization{}, &domain.OrgMember{}, &domain.PermissionEntry{},
		&domain.TestCase{}, &domain.TestRun{},
		&event.EventRecord{},
	).Error
	if err != nil {
		log.Fatalf("database migration failed %v\n", err)
	}

	if err := account.DefaultConfiguration(); err != nil {
		log.Fatalf("default configuration failed %v\n", err)
	}

	engine := gin.Default()
	engine.Use(bizerror.ErrorHandling())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "testhub")
	})

	servehttp.RegisterSessionsHandler(engine)
	servehttp.RegisterUsersHandler(engine, session.SimpleAuthFilter())
	servehttp.RegisterSessionHandler(engine, session.SimpleAuthFilter())
	servehttp.RegisterOrganizationsHandler(engine, session.SimpleAuthFilter())
	servehttp.RegisterPermissionsHandler(engine, session.SimpleAuthFilter())
	servehttp.RegisterTestCasesHandler(engine, session.SimpleAuthFilter())
	servehttp.RegisterTestRunsHandler(engine, session.SimpleAuthFilter())

	servehttp.StartHTTPServer(engine)
}
