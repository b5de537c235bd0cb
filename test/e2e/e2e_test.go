// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edudesk/internal/common/config"
	"edudesk/internal/common/database"
	"edudesk/internal/common/flow"
	"edudesk/internal/common/llm/llmtest"
	"edudesk/internal/common/logger"
	"edudesk/internal/models"
	"edudesk/internal/repository"
	classperformance "edudesk/internal/workers/analysis/class-performance"
	loadclassgrades "edudesk/internal/workers/data-access/load-class-grades"
	searchdirectory "edudesk/internal/workers/data-access/search-directory"
)

// Runs only with E2E=1 against the services from docker-compose.
func TestMain(m *testing.M) {
	if os.Getenv("E2E") != "1" {
		fmt.Println("E2E not set, skipping end-to-end tests")
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func loadConfig(t *testing.T) *config.Config {
	cfg, err := config.Load()
	require.NoError(t, err)

	cfg.Database.Postgres.Host = "localhost"
	cfg.Database.Redis.Address = "localhost:6379"
	cfg.Database.Elasticsearch.Addresses = []string{"http://localhost:9200"}
	cfg.Camunda.BrokerAddress = "localhost:26500"
	return cfg
}

// ==========================
// 1. Service Connectivity
// ==========================

func TestServicesConnectivity(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	cfg := loadConfig(t)

	pg, err := database.OpenRecordStore(cfg.Database.Postgres)
	require.NoError(t, err, "PostgreSQL connection failed")
	defer pg.Close()
	assert.NoError(t, pg.Ping(ctx), "PostgreSQL ping failed")

	rdb := database.NewCacheStore(cfg.Database.Redis)
	defer rdb.Close()
	assert.NoError(t, rdb.Ping(ctx), "Redis ping failed")

	es, err := database.NewSearchStore(cfg.Database.Elasticsearch)
	require.NoError(t, err, "Elasticsearch client creation failed")
	assert.NoError(t, es.Ping(ctx), "Elasticsearch ping failed")

	zeebe, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
	})
	require.NoError(t, err)
	defer zeebe.Close()
	_, err = zeebe.NewTopologyCommand().Send(ctx)
	assert.NoError(t, err, "Zeebe topology request failed")
}

// ==========================
// 2. Grades Through Analysis
// ==========================

func TestClassGradesToAnalysis(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	cfg := loadConfig(t)
	log := logger.NewTestLogger(t)

	pg, err := database.OpenRecordStore(cfg.Database.Postgres)
	require.NoError(t, err)
	defer pg.Close()
	rdb := database.NewCacheStore(cfg.Database.Redis)
	defer rdb.Close()

	classStore := repository.NewPostgresRepository[models.Class](pg.DB, models.EntityClasses)
	gradeStore := repository.NewPostgresRepository[models.Grade](pg.DB, models.EntityGrades)
	require.NoError(t, classStore.Migrate(ctx))
	require.NoError(t, gradeStore.Migrate(ctx))

	classes := repository.NewCachedRepository[models.Class](classStore, rdb.Client, models.EntityClasses, time.Minute)

	schoolID := "e2e-" + uuid.NewString()
	class, err := classes.Create(ctx, schoolID, models.Class{Name: "10-A", GradeLevel: 10, TeacherID: "t-e2e"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = classes.Delete(context.Background(), class.ID) })

	for i, g := range []models.Grade{
		{StudentName: "Ada", Score: 18, MaxScore: 20},
		{StudentName: "Ben", Score: 9, MaxScore: 20},
	} {
		g.ClassID = class.ID
		g.Subject = "Math"
		g.Assessment = fmt.Sprintf("Quiz %d", i+1)
		rec, err := gradeStore.Create(ctx, schoolID, g)
		require.NoError(t, err)
		t.Cleanup(func() { _ = gradeStore.Delete(context.Background(), rec.ID) })
	}

	loader := loadclassgrades.NewHandler(&loadclassgrades.Config{Timeout: 10 * time.Second, MaxGrades: 50}, classes, gradeStore, log)
	loaded, err := loader.Execute(ctx, &loadclassgrades.Input{ClassID: class.ID, Subject: "Math"})
	require.NoError(t, err)
	require.Len(t, loaded.Grades, 2)
	assert.Equal(t, "t-e2e", loaded.TeacherID)

	spy := llmtest.Respond(`{"analysis":"Ben is behind.","recommendation":"Pair Ben with Ada.","interventionNeeded":true}`)
	analysis := classperformance.NewHandler(
		&classperformance.Config{Timeout: 10 * time.Second},
		flow.NewRunner(spy, cfg.GenAI.DefaultModel, log, nil),
		log,
	)
	out, err := analysis.Execute(ctx, &classperformance.Input{
		ClassName: loaded.ClassName,
		Subject:   loaded.Subject,
		Grades:    loaded.Grades,
	})
	require.NoError(t, err)
	assert.True(t, out.InterventionNeeded)
	assert.Equal(t, 1, spy.Calls())
	assert.Contains(t, spy.Last().Prompt, "Ada")
}

// ==========================
// 3. Directory Search
// ==========================

func TestDirectorySearch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	cfg := loadConfig(t)

	es, err := database.NewSearchStore(cfg.Database.Elasticsearch)
	require.NoError(t, err)

	index := "e2e-directory-" + uuid.NewString()[:8]
	directory := repository.NewDirectoryIndex(es.Client, index)
	require.NoError(t, directory.EnsureIndex(ctx))
	t.Cleanup(func() { _, _ = es.Client.Indices.Delete([]string{index}) })

	schoolID := "e2e-school"
	require.NoError(t, directory.Index(ctx, repository.DirectoryEntry{ID: "s-1", SchoolID: schoolID, Name: "Ada Lovelace", Role: models.RoleStudent}))
	require.NoError(t, directory.Index(ctx, repository.DirectoryEntry{ID: "t-1", SchoolID: schoolID, Name: "Grace Hopper", Role: models.RoleTeacher}))

	h := searchdirectory.NewHandler(&searchdirectory.Config{Timeout: 10 * time.Second, MaxPageSize: 100}, directory, logger.NewTestLogger(t))
	out, err := h.Execute(ctx, &searchdirectory.Input{SchoolID: schoolID, Name: "ada"})

	require.NoError(t, err)
	require.Equal(t, 1, out.Total)
	assert.Equal(t, "s-1", out.Results[0].ID)
}
