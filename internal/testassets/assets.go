package testassets

import "embed"

// Specs holds the OpenAPI documents used across generator tests.
//
//go:embed specs/*
var Specs embed.FS

// Petstore returns the pet store document
func Petstore() []byte {
	return mustRead("specs/petstore.yaml")
}

// Accounts returns the accounts document, a slice of the Twilio API
func Accounts() []byte {
	return mustRead("specs/accounts.json")
}

func mustRead(name string) []byte {
	data, err := Specs.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return data
}
