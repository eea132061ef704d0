// Package token encodes the (person, equipment) pair carried by a scannable
// access token. The wire format is plain text: "<personId>,<equipmentId>".
package token

import (
	"strconv"
	"strings"

	apperrors "equipment-access/pkg/errors"
)

const separator = ","

// Pair identifies the person and the equipment an access event is about.
type Pair struct {
	PersonID    int64
	EquipmentID int64
}

func (p Pair) String() string {
	return strconv.FormatInt(p.PersonID, 10) + separator + strconv.FormatInt(p.EquipmentID, 10)
}

// Encode returns the token for a person and a piece of equipment.
func Encode(personID, equipmentID int64) (string, error) {
	if personID < 0 {
		return "", &apperrors.EncodeError{Reason: "person id must be non-negative"}
	}
	if equipmentID < 0 {
		return "", &apperrors.EncodeError{Reason: "equipment id must be non-negative"}
	}
	return Pair{PersonID: personID, EquipmentID: equipmentID}.String(), nil
}

// Decode parses a token produced by Encode.
func Decode(raw string) (Pair, error) {
	fields := strings.Split(raw, separator)
	if len(fields) != 2 {
		return Pair{}, &apperrors.DecodeError{Token: raw, Reason: "expected exactly two comma separated fields"}
	}

	personID, err := parseID(fields[0])
	if err != nil {
		return Pair{}, &apperrors.DecodeError{Token: raw, Reason: "person id: " + err.Error()}
	}
	equipmentID, err := parseID(fields[1])
	if err != nil {
		return Pair{}, &apperrors.DecodeError{Token: raw, Reason: "equipment id: " + err.Error()}
	}
	return Pair{PersonID: personID, EquipmentID: equipmentID}, nil
}

type fieldError string

func (e fieldError) Error() string { return string(e) }

func parseID(field string) (int64, error) {
	if field == "" {
		return 0, fieldError("empty")
	}
	// ParseInt would accept a leading sign.
	for _, r := range field {
		if r < '0' || r > '9' {
			return 0, fieldError("not a non-negative integer")
		}
	}
	id, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return 0, fieldError("out of range")
	}
	return id, nil
}
