package domain

// DefaultCategory is a seed entry for a new user's category list.
type DefaultCategory struct {
	Name        string
	Icon        string
	Color       string
	Description string
}

// DefaultCategories is seeded, in order, for users without categories.
var DefaultCategories = []DefaultCategory{
	{Name: "Housing", Icon: "🏠", Color: "#FF6B6B", Description: "Rent, mortgage, property"},
	{Name: "Transportation", Icon: "🚗", Color: "#4ECDC4", Description: "Car, gas, public transit"},
	{Name: "Food", Icon: "🍔", Color: "#95E1D3", Description: "General food expenses"},
	{Name: "Groceries", Icon: "🛒", Color: "#45B7D1", Description: "Grocery shopping"},
	{Name: "Dining Out", Icon: "🍽️", Color: "#F38181", Description: "Restaurants, takeout"},
	{Name: "Entertainment", Icon: "🎬", Color: "#AA96DA", Description: "Movies, games, hobbies"},
	{Name: "Shopping", Icon: "🛍️", Color: "#FCBAD3", Description: "Clothing, personal items"},
	{Name: "Utilities", Icon: "💡", Color: "#FFA07A", Description: "Electric, water, internet"},
	{Name: "Healthcare", Icon: "⚕️", Color: "#98D8C8", Description: "Medical, insurance"},
	{Name: "Education", Icon: "📚", Color: "#6C5CE7", Description: "Tuition, courses, books"},
	{Name: "Travel", Icon: "✈️", Color: "#00B894", Description: "Trips, vacations"},
	{Name: "Subscriptions", Icon: "📱", Color: "#FDCB6E", Description: "Netflix, Spotify, etc."},
	{Name: "Investments", Icon: "💰", Color: "#00CEC9", Description: "Stocks, savings"},
	{Name: "Salary", Icon: "💵", Color: "#55EFC4", Description: "Income, wages"},
	{Name: "Savings", Icon: "🐷", Color: "#81ECEC", Description: "Emergency fund, goals"},
	{Name: "Miscellaneous", Icon: "📦", Color: "#A29BFE", Description: "Other expenses"},
}
