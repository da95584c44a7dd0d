// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package otp

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

const (
	codeMin   = 100000
	codeRange = 900000
)

// GenerateCode returns a uniformly random six digit code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeRange))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}
