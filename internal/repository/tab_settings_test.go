package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupSettingsRepo(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *TabSettingsRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return db, mock, NewTabSettingsRepository(db, zap.NewNop())
}

func TestListTabSettings_Success(t *testing.T) {
	db, mock, repo := setupSettingsRepo(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"tab_id", "tab_kind", "custom_title", "is_enabled", "sort_order", "mobile_hidden"}).
		AddRow("description", "built_in", "Overview", true, 1, false).
		AddRow("rule-3", "rule", nil, true, 2, true).
		AddRow("reviews", "built_in", "", false, 30, false)

	mock.ExpectQuery(`SELECT\s+tab_id,.*FROM product_tab_settings\s+ORDER BY sort_order ASC, tab_id ASC`).
		WillReturnRows(rows)

	settings, err := repo.ListTabSettings(context.Background())

	require.NoError(t, err)
	require.Len(t, settings, 3)

	assert.Equal(t, "description", settings[0].TabID)
	assert.Equal(t, models.TabKindBuiltIn, settings[0].Kind)
	require.NotNil(t, settings[0].CustomTitle)
	assert.Equal(t, "Overview", *settings[0].CustomTitle)
	assert.True(t, settings[0].Enabled)
	assert.Equal(t, 1, settings[0].SortOrder)

	assert.Equal(t, models.TabKindRule, settings[1].Kind)
	assert.Nil(t, settings[1].CustomTitle)
	assert.True(t, settings[1].MobileHidden)

	assert.Nil(t, settings[2].CustomTitle)
	assert.False(t, settings[2].Enabled)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTabSettings_QueryError(t *testing.T) {
	db, mock, repo := setupSettingsRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("timeout"))

	_, err := repo.ListTabSettings(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query tab settings")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedBuiltInTabs_InsertsMissing(t *testing.T) {
	db, mock, repo := setupSettingsRepo(t)
	defer db.Close()

	tabs := models.DefaultBuiltInTabs()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO product_tab_settings`).
		WithArgs("description", "built_in", 10).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO product_tab_settings`).
		WithArgs("additional_information", "built_in", 20).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO product_tab_settings`).
		WithArgs("reviews", "built_in", 30).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	inserted, err := repo.SeedBuiltInTabs(context.Background(), tabs)

	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedBuiltInTabs_RollsBackOnError(t *testing.T) {
	db, mock, repo := setupSettingsRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO product_tab_settings`).
		WithArgs("description", "built_in", 10).
		WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	_, err := repo.SeedBuiltInTabs(context.Background(), models.DefaultBuiltInTabs())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to seed tab description")
	assert.NoError(t, mock.ExpectationsWereMet())
}
