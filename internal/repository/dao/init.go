package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Festival{},
		&Stand{},
		&StandStaff{},
		&Product{},
		&Wallet{},
		&WalletTransaction{},
		&TicketType{},
		&Ticket{},
		&WebhookEndpoint{},
		&WebhookDelivery{},
	)
}
