package database

import (
	"ChemoOrder/models"
	"context"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database instance.
var DB *gorm.DB

// InitDB initializes the database connection and configures it.
func InitDB(ctx context.Context, dsn string) (*gorm.DB, error) {
	var err error

	// Configure logging level based on environment
	logMode := logger.Silent
	if os.Getenv("ENV") == "development" {
		logMode = logger.Info
	}

	// Open the database connection
	// TranslateError surfaces gorm.ErrDuplicatedKey, which the order id
	// generator retries on.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: false,
		PrepareStmt:                              true,
		TranslateError:                           true,
		Logger:                                   logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database connection")
	}

	// Configure connection pool
	if err := configureConnectionPool(); err != nil {
		return nil, err
	}

	// Test the database connection
	if err := testDatabaseConnection(ctx); err != nil {
		return nil, err
	}

	// Run migrations
	if err := runMigrations(); err != nil {
		return nil, err
	}

	// Seed initial data
	if err := seedInitialData(); err != nil {
		return nil, err
	}

	log.Println("Database initialized successfully.")
	return DB, nil
}

// configureConnectionPool sets up the connection pool settings for the database.
func configureConnectionPool() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	sqlDB.SetMaxOpenConns(40)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
	return nil
}

// testDatabaseConnection verifies that the database connection is functional.
func testDatabaseConnection(ctx context.Context) error {
	sqlDB, err := DB.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.Wrap(err, "failed to ping database")
	}
	return nil
}

// runMigrations performs database schema migrations.
func runMigrations() error {
	return DB.AutoMigrate(
		&models.Ward{},
		&models.User{},
		&models.Patient{},
		&models.Order{},
		&models.Notification{},
		&models.Drug{},
		&models.Regimen{},
	)
}

// seedInitialData populates the database with initial data.
func seedInitialData() error {
	if err := models.SeedWards(DB); err != nil {
		return errors.Wrap(err, "failed to seed wards")
	}
	if err := seedUsers(); err != nil {
		return errors.Wrap(err, "failed to seed users")
	}
	if err := seedCatalogs(); err != nil {
		return errors.Wrap(err, "failed to seed drug catalogs")
	}
	return nil
}

// seedUsers inserts one nurse and one pharmacist per ward for first-run use.
func seedUsers() error {
	password := os.Getenv("SEED_USER_PASSWORD")
	if password == "" {
		// Development fallback; rotate through the reset flow in production.
		password = "ChangeMe@123"
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	medWard := "ward-med"
	oncoWard := "ward-onco"
	initialUsers := []models.User{
		{ID: "user-nurse-med", Username: "somying_n", Password: string(hashed), Email: "somying_n@hospital.example", FullName: "Somying Jaidee", Role: models.RoleNurse, WardID: &medWard},
		{ID: "user-nurse-onco", Username: "somsri_n", Password: string(hashed), Email: "somsri_n@hospital.example", FullName: "Somsri Jaikwang", Role: models.RoleNurse, WardID: &oncoWard},
		{ID: "user-pharm-1", Username: "somsak_p", Password: string(hashed), Email: "somsak_p@hospital.example", FullName: "Somsak Sukjai", Role: models.RolePharmacist},
		{ID: "user-pharm-2", Username: "sommai_p", Password: string(hashed), Email: "sommai_p@hospital.example", FullName: "Sommai Thamngandee", Role: models.RolePharmacist},
	}
	return DB.Transaction(func(tx *gorm.DB) error {
		for _, user := range initialUsers {
			if err := tx.FirstOrCreate(&user, models.User{Username: user.Username}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// seedCatalogs inserts the reference drug and regimen catalogs.
func seedCatalogs() error {
	initialDrugs := []models.Drug{
		{ID: "oxaliplatin", Name: "Oxaliplatin", Description: "Platinum-based antineoplastic agent"},
		{ID: "leucovorin", Name: "Leucovorin", Description: "Folinic acid rescue agent"},
		{ID: "5fu-bolus", Name: "5-FU (Bolus)", Description: "Fluorouracil bolus"},
		{ID: "5fu-infusion", Name: "5-FU (Infusion)", Description: "Fluorouracil continuous infusion"},
		{ID: "carboplatin", Name: "Carboplatin", Description: "Platinum-based antineoplastic agent"},
		{ID: "etoposide", Name: "Etoposide", Description: "Topoisomerase inhibitor"},
		{ID: "gemcitabine", Name: "Gemcitabine", Description: "Nucleoside analog"},
	}
	initialRegimens := []models.Regimen{
		{
			ID:   "folfox6",
			Name: "FOLFOX6",
			Drugs: models.EncodeJSON([]models.OrderDrug{
				{DrugID: "oxaliplatin", Dose: "85 mg/m2", Day: "1"},
				{DrugID: "leucovorin", Dose: "400 mg/m2", Day: "1"},
				{DrugID: "5fu-bolus", Dose: "400 mg/m2", Day: "1"},
				{DrugID: "5fu-infusion", Dose: "2400 mg/m2", Day: "1-2"},
			}),
			Instructions: "Hold ice chips during infusion to limit mucositis; drink 2-3 litres of water daily.",
			SideEffects:  models.EncodeJSON([]string{"nausea", "fatigue", "hair loss", "photosensitivity"}),
			Precautions:  models.EncodeJSON([]string{"avoid cold exposure", "monitor vitals every 4 hours"}),
		},
		{
			ID:   "carboplatin_5fu",
			Name: "Carboplatin + 5FU",
			Drugs: models.EncodeJSON([]models.OrderDrug{
				{DrugID: "carboplatin", Dose: "AUC 5-6", Day: "1"},
				{DrugID: "5fu-infusion", Dose: "1000 mg/m2/day", Day: "1-4"},
			}),
			Instructions: "Drink 2-3 litres of water daily; antiemetics as prescribed.",
			SideEffects:  models.EncodeJSON([]string{"nausea", "abdominal pain", "tinnitus"}),
			Precautions:  models.EncodeJSON([]string{"watch for hypersensitivity", "monitor blood pressure"}),
		},
		{
			ID:           "etoposide",
			Name:         "Etoposide",
			Drugs:        models.EncodeJSON([]models.OrderDrug{{DrugID: "etoposide", Dose: "100 mg/m2", Day: "1-3"}}),
			Instructions: "Drink 2-3 litres of water daily; rest as needed.",
			SideEffects:  models.EncodeJSON([]string{"anorexia", "nausea", "fever", "hair loss"}),
			Precautions:  models.EncodeJSON([]string{"report fever or sore throat", "report blood in urine"}),
		},
		{
			ID:           "gemcitabine",
			Name:         "Gemcitabine",
			Drugs:        models.EncodeJSON([]models.OrderDrug{{DrugID: "gemcitabine", Dose: "1000-1250 mg/m2", Day: "1"}}),
			Instructions: "Drink 2-3 litres of water daily; balanced diet as advised.",
			SideEffects:  models.EncodeJSON([]string{"nausea", "fever", "chills", "rash"}),
			Precautions:  models.EncodeJSON([]string{"watch for hearing changes", "monitor heart rhythm"}),
		},
		{
			ID:          "other",
			Name:        "Other (free text)",
			Drugs:       models.EncodeJSON([]models.OrderDrug{}),
			SideEffects: models.EncodeJSON([]string{}),
			Precautions: models.EncodeJSON([]string{}),
		},
	}
	return DB.Transaction(func(tx *gorm.DB) error {
		for _, drug := range initialDrugs {
			if err := tx.FirstOrCreate(&drug, models.Drug{ID: drug.ID}).Error; err != nil {
				return err
			}
		}
		for _, regimen := range initialRegimens {
			if err := tx.FirstOrCreate(&regimen, models.Regimen{ID: regimen.ID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
