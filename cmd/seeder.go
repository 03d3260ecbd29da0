package cmd

import (
	"fmt"
	"log"

	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/balance"
	balancepg "github.com/frahmantamala/leave-management/internal/balance/postgres"
	leavetypedm "github.com/frahmantamala/leave-management/internal/core/datamodel/leavetype"
	"github.com/frahmantamala/leave-management/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type seedLeaveType struct {
	Name        string
	Description string
	Days        int
}

// defaultLeaveTypes are provisioned for every role and seniority at the
// listed day count. Gender restricted types are inferred from the name.
var defaultLeaveTypes = []seedLeaveType{
	{"Casual Leave", "Short notice personal time off", 12},
	{"Sick Leave", "Illness or medical appointments", 10},
	{"Earned Leave", "Accrued annual vacation", 15},
	{"Maternity Leave", "Leave for expecting mothers", 90},
	{"Paternity Leave", "Leave for new fathers", 15},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with an HR admin and default leave types",
	Long:  `Seed the database with the permission catalog, an HR administrator account and the default leave type catalog.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{"leave_applications", "leave_balances", "leave_allocations", "leave_types", "user_permissions", "activity_logs"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing leave data")
		}

		seedPermissions(db)
		adminID := seedAdmin(db)
		seedLeaveTypes(db)
		provisionAdminBalances(db, adminID)
	},
}

func seedPermissions(db *gorm.DB) {
	permissions := []struct {
		Name string
		Desc string
	}{
		{auth.PermManageUsers, "Can manage user accounts"},
		{auth.PermManageLeaveTypes, "Can manage the leave type catalog"},
		{auth.PermApplyLeave, "Can submit leave requests"},
		{auth.PermDecideLeave, "Can approve or reject leave requests"},
		{auth.PermOverrideDecision, "Can revise an existing decision"},
		{auth.PermViewTeamLeaves, "Can view requests from direct reports"},
		{auth.PermViewAllLeaves, "Can view all leave requests"},
		{auth.PermViewActivityLog, "Can view the activity log"},
	}

	for _, p := range permissions {
		var pid int64
		row := db.Raw("SELECT id FROM permissions WHERE name = ?", p.Name).Row()
		if err := row.Scan(&pid); err != nil {
			if err := db.Exec("INSERT INTO permissions (name, description, created_at) VALUES (?, ?, now())", p.Name, p.Desc).Error; err != nil {
				log.Fatalf("failed to insert permission %s: %v", p.Name, err)
			}
		}
	}
	fmt.Println("Permission catalog seeded")
}

func seedAdmin(db *gorm.DB) int64 {
	adminEmail := "admin@company.com"

	var adminID int64
	if err := db.Raw("SELECT id FROM users WHERE email = ?", adminEmail).Row().Scan(&adminID); err == nil {
		fmt.Println("admin user already exists; will ensure permissions")
	} else {
		hash, _ := bcrypt.GenerateFromPassword([]byte("admin12345"), bcrypt.DefaultCost)
		err := db.Exec(
			"INSERT INTO users (email, name, password_hash, role, seniority, gender, department, designation, is_active, created_at, updated_at) VALUES (?, ?, ?, 'hr', 'lead', 'other', 'Human Resources', 'HR Administrator', true, now(), now())",
			adminEmail, "HR Admin", string(hash),
		).Error
		if err != nil {
			log.Fatalf("failed to insert admin user: %v", err)
		}
		if err := db.Raw("SELECT id FROM users WHERE email = ?", adminEmail).Row().Scan(&adminID); err != nil {
			log.Fatalf("failed to lookup admin user id: %v", err)
		}
		fmt.Println("Seeded admin user:", adminEmail)
	}

	for _, permName := range auth.PermissionsForRole("hr") {
		var pid int64
		if err := db.Raw("SELECT id FROM permissions WHERE name = ?", permName).Row().Scan(&pid); err != nil {
			log.Fatalf("permission not found after insert %s: %v", permName, err)
		}

		var exists int
		if err := db.Raw("SELECT 1 FROM user_permissions WHERE user_id = ? AND permission_id = ?", adminID, pid).Row().Scan(&exists); err == nil {
			continue
		}

		if err := db.Exec("INSERT INTO user_permissions (user_id, permission_id, granted_by, created_at) VALUES (?, ?, NULL, now())", adminID, pid).Error; err != nil {
			log.Fatalf("failed to grant permission %s to admin user: %v", permName, err)
		}
	}
	fmt.Println("Granted HR permissions to admin user:", adminEmail)

	return adminID
}

func seedLeaveTypes(db *gorm.DB) {
	roles := []string{"employee", "manager", "hr"}
	seniorities := []string{"junior", "mid", "senior", "lead"}

	for _, t := range defaultLeaveTypes {
		var typeID int64
		if err := db.Raw("SELECT id FROM leave_types WHERE lower(name) = lower(?)", t.Name).Row().Scan(&typeID); err == nil {
			continue
		}

		restriction := leavetypedm.InferGenderRestriction(t.Name)
		err := db.Exec(
			"INSERT INTO leave_types (name, description, gender_restriction, created_at, updated_at) VALUES (?, ?, ?, now(), now())",
			t.Name, t.Description, restriction,
		).Error
		if err != nil {
			log.Fatalf("failed to insert leave type %s: %v", t.Name, err)
		}
		if err := db.Raw("SELECT id FROM leave_types WHERE lower(name) = lower(?)", t.Name).Row().Scan(&typeID); err != nil {
			log.Fatalf("failed to lookup leave type id for %s: %v", t.Name, err)
		}

		for _, role := range roles {
			for _, seniority := range seniorities {
				err := db.Exec(
					"INSERT INTO leave_allocations (leave_type_id, role, seniority, days, created_at) VALUES (?, ?, ?, ?, now())",
					typeID, role, seniority, t.Days,
				).Error
				if err != nil {
					log.Fatalf("failed to insert allocation for %s %s/%s: %v", t.Name, role, seniority, err)
				}
			}
		}
		fmt.Printf("Seeded leave type: %s (%d days, %s)\n", t.Name, t.Days, restriction)
	}
	fmt.Println("Leave type catalog seeded")
}

func provisionAdminBalances(db *gorm.DB, adminID int64) {
	engine := balance.NewEngine(balancepg.NewBalanceRepository(db), logger.LoggerWrapper())

	var role, seniority, gender string
	if err := db.Raw("SELECT role, seniority, gender FROM users WHERE id = ?", adminID).Row().Scan(&role, &seniority, &gender); err != nil {
		log.Fatalf("failed to read admin attributes: %v", err)
	}

	// Reconcile is idempotent, re-running the seeder never resets usage
	if err := engine.Reconcile(adminID, role, seniority, gender); err != nil {
		log.Fatalf("failed to provision admin balances: %v", err)
	}
	fmt.Println("Provisioned admin leave balances")
}
