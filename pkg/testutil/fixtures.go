package testutil

import (
	"github.com/google/uuid"
)

// Fixed UUIDs for deterministic testing
var (
	TestUserID1   = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	TestPartnerID = uuid.MustParse("00000000-0000-0000-0000-000000000010")
)
