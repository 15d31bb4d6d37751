package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type row struct {
	ID   int
	Name string
}

func TestGormConfig_LogsThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	db, err := gorm.Open(sqlite.Open("file:gormlog?mode=memory&cache=shared"), GormConfig(zap.New(core)))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&row{}))
	logs.TakeAll()

	var r row
	err = db.First(&r, 42).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Zero(t, logs.Len(), "a missing row is not logged")

	err = db.Table("missing_table").Find(&[]row{}).Error
	require.Error(t, err)
	require.NotZero(t, logs.Len())
	assert.Equal(t, "gorm", logs.All()[0].LoggerName)
}
