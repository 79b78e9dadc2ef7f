package services

import "billing/internal/core"

// Seed data written on first run, when the store has no saved collections yet.

func sampleProducts() []core.Product {
	return []core.Product{
		{
			ID:          "sample-1",
			Name:        "Web Development Service",
			Price:       100,
			Discount:    0,
			Category:    "Services",
			Stock:       999,
			Description: "Professional web development services",
		},
		{
			ID:          "sample-2",
			Name:        "Consulting Hour",
			Price:       150,
			Discount:    10,
			Category:    "Consulting",
			Stock:       999,
			Description: "Business consulting services",
		},
	}
}

func sampleCustomers() []core.Customer {
	return []core.Customer{
		{
			ID:      "customer-1",
			Name:    "John Doe",
			Email:   "john@example.com",
			Phone:   "+1 (555) 123-4567",
			Address: "123 Main St, City, State 12345",
		},
		{
			ID:      "customer-2",
			Name:    "Jane Smith",
			Email:   "jane@example.com",
			Phone:   "+1 (555) 987-6543",
			Address: "456 Oak Ave, City, State 12345",
		},
	}
}

func defaultSettings() core.CompanySettings {
	return core.CompanySettings{
		Name:          "Your Company Name",
		Email:         "contact@yourcompany.com",
		Phone:         "+1 (555) 123-4567",
		Address:       "123 Business St, City, State 12345",
		TaxRate:       10,
		Currency:      "USD",
		InvoicePrefix: "INV",
	}
}
