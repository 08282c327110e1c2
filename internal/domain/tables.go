package domain

var Tables = []interface{}{
	// Actors
	&User{},
	&Entrepreneur{},
	&AuthToken{},
	// Marketplace
	&Product{},
	&Service{},
	&Favorite{},
	// System
	&AuditLog{},
}
