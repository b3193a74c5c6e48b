package database

import (
	"log"

	"github.com/lucasferreira/retailpos-api/internal/domain/entity"
	"github.com/lucasferreira/retailpos-api/internal/domain/enum"
	"github.com/lucasferreira/retailpos-api/pkg/money"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedDefaultData seeds payment methods, the generic walk-in customer and,
// when configured, an admin user.
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	if err := seedPaymentMethods(db); err != nil {
		return err
	}
	if err := seedGenericCustomer(db); err != nil {
		return err
	}
	if err := seedAdminUser(db); err != nil {
		return err
	}

	log.Println("Default data seeding completed")
	return nil
}

func seedPaymentMethods(db *gorm.DB) error {
	creditDescription := "Customer store-credit draws"

	methods := []entity.PaymentMethod{
		{Name: "Cash", IsCash: true},
		{Name: "PIX", FeeBasisPoints: money.FromPercent(5.00), FeePayer: enum.FeePayerCustomer},
		{Name: "Debit Card", FeeBasisPoints: money.FromPercent(2.00), FeePayer: enum.FeePayerCustomer},
		{Name: "Credit Card"},
		// Internal method used for store-credit draws; never shown to
		// customers and never fee-bearing.
		{Name: entity.CreditMethodName, IsInternal: true, Description: &creditDescription},
	}

	for i := range methods {
		methods[i].IsActive = true
		var existing entity.PaymentMethod
		if err := db.Where("name = ?", methods[i].Name).First(&existing).Error; err != nil {
			if err := db.Create(&methods[i]).Error; err != nil {
				log.Printf("Warning: failed to create payment method %s: %v", methods[i].Name, err)
			}
		}
	}
	return nil
}

func seedGenericCustomer(db *gorm.DB) error {
	var existing entity.Customer
	if err := db.Where("phone = ?", entity.GenericCustomerPhone).First(&existing).Error; err == nil {
		if !existing.IsGeneric {
			existing.IsGeneric = true
			return db.Model(&existing).Update("is_generic", true).Error
		}
		return nil
	}

	generic := entity.Customer{
		FullName:  "Walk-in Customer",
		Phone:     entity.GenericCustomerPhone,
		IsGeneric: true,
	}
	if err := db.Create(&generic).Error; err != nil {
		log.Printf("Warning: failed to create generic customer: %v", err)
	}
	return nil
}

func seedAdminUser(db *gorm.DB) error {
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail == "" || adminPassword == "" {
		return nil
	}

	var existing entity.User
	if err := db.Where("email = ?", adminEmail).First(&existing).Error; err == nil {
		log.Printf("Admin user already exists: %s", adminEmail)
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Warning: failed to hash admin password: %v", err)
		return nil
	}

	if adminName == "" {
		adminName = "Admin"
	}
	firstName := adminName
	lastName := ""
	for i, c := range adminName {
		if c == ' ' {
			firstName = adminName[:i]
			lastName = adminName[i+1:]
			break
		}
	}

	admin := entity.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     adminEmail,
		Password:  string(hashedPassword),
		Role:      entity.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Warning: failed to create admin user: %v", err)
	} else {
		log.Printf("Admin user created: %s", adminEmail)
	}
	return nil
}
