package validation

import (
	"fmt"

	"petcare-store/internal/models"
)

// OrderMessages are the violation messages for order payloads
var OrderMessages = Messages{
	"user":                       "Invalid user ID",
	"orderItems":                 "Order items must be an array with at least one item",
	"orderItems.name":            "Product name must be between 1 and 200 characters",
	"orderItems.quantity":        "Quantity must be between 1 and 100",
	"orderItems.price":           "Price must be a positive number",
	"orderItems.product":         "Invalid product ID",
	"shippingAddress.address":    "Address must be between 5 and 500 characters",
	"shippingAddress.city":       "City must be between 2 and 100 characters",
	"shippingAddress.postalCode": "Postal code must be a 6-digit number",
	"shippingAddress.country":    "Country must be between 2 and 100 characters",
	"paymentMethod":              "Invalid payment method",
	"taxPrice":                   "Tax price must be a positive number",
	"shippingPrice":              "Shipping price must be a positive number",
	"totalPrice":                 "Total price must be a positive number",
}

// ProductMessages are the violation messages for product payloads
var ProductMessages = Messages{
	"name":        "Product name must be between 2 and 200 characters",
	"description": "Description must be between 10 and 2000 characters",
	"price":       "Price must be greater than 0",
	"category":    "Invalid category",
	"brand":       "Brand must be between 1 and 100 characters",
	"stock":       "Stock must be a non-negative integer",
	"rating":      "Rating must be between 0 and 5",
	"numReviews":  "Number of reviews must be a non-negative integer",
}

// UserMessages are the violation messages for user payloads
var UserMessages = Messages{
	"name":     "Name must be between 2 and 100 characters",
	"email":    "Please provide a valid email",
	"password": "Password must be at least 8 characters long and contain at least one lowercase letter, one uppercase letter, one number, and one special character",
}

// ShippingMessages are the violation messages for shipping quote payloads
var ShippingMessages = Messages{
	"pincode":    "Pincode must be a 6-digit number",
	"weight":     "Weight must be a non-negative number",
	"orderValue": "Order value must be a non-negative number",
}

// Order normalizes and checks an order payload
func Order(req models.CreateOrderRequest) Result[models.CreateOrderRequest] {
	res := check(req.Normalize(), OrderMessages)

	var a amounts
	for i, item := range res.Value.OrderItems {
		a.check(fmt.Sprintf("orderItems[%d].price", i), item.Price)
	}
	a.check("taxPrice", res.Value.TaxPrice)
	a.check("shippingPrice", res.Value.ShippingPrice)
	a.check("totalPrice", res.Value.TotalPrice)
	res.Violations = append(res.Violations, a.violations...)
	return res
}

// Product normalizes and checks a product payload
func Product(req models.CreateProductRequest) Result[models.CreateProductRequest] {
	res := check(req.Normalize(), ProductMessages)

	var a amounts
	a.check("price", res.Value.Price)
	a.check("rating", res.Value.Rating)
	res.Violations = append(res.Violations, a.violations...)
	return res
}

// User normalizes and checks a registration payload
func User(req models.RegisterUserRequest) Result[models.RegisterUserRequest] {
	return check(req.Normalize(), UserMessages)
}

// ShippingQuote normalizes and checks a shipping quote payload
func ShippingQuote(req models.ShippingQuoteRequest) Result[models.ShippingQuoteRequest] {
	return check(req.Normalize(), ShippingMessages)
}
