// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Credentials is the temporary credential set handed out by the identity
// endpoints. SessionToken is what authenticates record store calls.
type Credentials struct {
	AccessKeyID     string    `json:"AccessKeyId"`
	SecretAccessKey string    `json:"SecretAccessKey"`
	SessionToken    string    `json:"SessionToken"`
	Expiration      time.Time `json:"Expiration"`

	// IdentityID is the identity the credentials were issued for.
	IdentityID string `json:"IdentityId"`

	// Authenticated is false for guest credentials.
	Authenticated bool `json:"Authenticated"`
}

// AssumeIdentityRequest exchanges a web identity token for credentials
// bound to RoleArn.
type AssumeIdentityRequest struct {
	RoleArn          string `json:"RoleArn"`
	WebIdentityToken string `json:"WebIdentityToken"`
	RoleSessionName  string `json:"RoleSessionName"`
}

// UnauthenticatedIdentityRequest asks for guest credentials in a pool.
type UnauthenticatedIdentityRequest struct {
	IdentityPoolID string `json:"IdentityPoolId"`
}

// CredentialsResponse wraps issued credentials.
type CredentialsResponse struct {
	Credentials Credentials `json:"Credentials"`
}
