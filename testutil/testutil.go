// Package testutil builds seeded in-memory databases for package tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/restaurant-commands/database"
	"github.com/yeremiapane/restaurant-commands/models"
)

var dbSeq int64

// NewDB opens a private shared-cache sqlite database and migrates it. The
// pool is capped at one connection so transactions serialize.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db := NewEmptyDB(t)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// NewEmptyDB is NewDB without migrations, for tests that lay out their own
// tables.
func NewEmptyDB(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, atomic.AddInt64(&dbSeq, 1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

type Fixture struct {
	DB *gorm.DB

	Restaurant      models.Restaurant
	OtherRestaurant models.Restaurant

	Table4        models.Table
	Table5        models.Table
	ReservedTable models.Table
	OtherTable    models.Table

	Manager        models.StaffUser
	Waiter         models.StaffUser
	InactiveWaiter models.StaffUser
	ForeignManager models.StaffUser
	SuperAdmin     models.StaffUser

	Burger         models.Product
	Soda           models.Product
	ForeignProduct models.Product
}

// Seed creates two restaurants with tables, staff and products. Burger
// costs 25.00 and soda 8.00.
func Seed(t testing.TB, db *gorm.DB) *Fixture {
	t.Helper()
	f := &Fixture{DB: db}
	now := time.Date(2024, 5, 2, 18, 0, 0, 0, time.UTC)

	create := func(v interface{}) {
		t.Helper()
		if err := db.Omit(clause.Associations).Create(v).Error; err != nil {
			t.Fatalf("seed %T: %v", v, err)
		}
	}

	f.Restaurant = models.Restaurant{Name: "Bistro Central", CreatedAt: now, UpdatedAt: now}
	create(&f.Restaurant)
	f.OtherRestaurant = models.Restaurant{Name: "Harbor Grill", CreatedAt: now, UpdatedAt: now}
	create(&f.OtherRestaurant)

	table := func(r models.Restaurant, number int, status models.TableStatus) models.Table {
		tb := models.Table{RestaurantID: r.ID, Number: number, Capacity: 4, Status: status, CreatedAt: now, UpdatedAt: now}
		create(&tb)
		return tb
	}
	f.Table4 = table(f.Restaurant, 4, models.TableAvailable)
	f.Table5 = table(f.Restaurant, 5, models.TableAvailable)
	f.ReservedTable = table(f.Restaurant, 6, models.TableReserved)
	f.OtherTable = table(f.OtherRestaurant, 1, models.TableAvailable)

	staff := func(r *models.Restaurant, email string, role models.StaffRole, status models.StaffStatus) models.StaffUser {
		s := models.StaffUser{Name: email, Email: email, Role: role, Status: status, CreatedAt: now, UpdatedAt: now}
		if r != nil {
			id := r.ID
			s.RestaurantID = &id
		}
		create(&s)
		return s
	}
	f.Manager = staff(&f.Restaurant, "manager@bistro.test", models.RoleManager, models.StaffActive)
	f.Waiter = staff(&f.Restaurant, "waiter@bistro.test", models.RoleWaiter, models.StaffActive)
	f.InactiveWaiter = staff(&f.Restaurant, "former@bistro.test", models.RoleWaiter, models.StaffInactive)
	f.ForeignManager = staff(&f.OtherRestaurant, "manager@harbor.test", models.RoleManager, models.StaffActive)
	f.SuperAdmin = staff(nil, "root@platform.test", models.RoleSuperAdmin, models.StaffActive)

	product := func(r models.Restaurant, name, price string) models.Product {
		p := models.Product{RestaurantID: r.ID, Name: name, Price: decimal.RequireFromString(price), CreatedAt: now, UpdatedAt: now}
		create(&p)
		return p
	}
	f.Burger = product(f.Restaurant, "Burger", "25.00")
	f.Soda = product(f.Restaurant, "Soda", "8.00")
	f.ForeignProduct = product(f.OtherRestaurant, "Fish and Chips", "19.90")

	return f
}

func NewSeededDB(t testing.TB) *Fixture {
	t.Helper()
	return Seed(t, NewDB(t))
}
