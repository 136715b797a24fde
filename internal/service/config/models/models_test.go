package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EventScheduling/pkg/types"
)

func TestToDomainPatch_NormalizesWorkingHours(t *testing.T) {
	req := UpdateConfigRequest{WorkingHours: map[string]WorkingHours{
		"monday":  {Start: "9:00", End: " 18:00 ", IsWorking: true},
		"tuesday": {Start: "nine", End: "18:00", IsWorking: true},
	}}

	patch, err := req.ToDomainPatch()

	require.NoError(t, err)
	assert.Equal(t, types.TimeString("09:00"), patch.WorkingHours[time.Monday].Start)
	assert.Equal(t, types.TimeString("18:00"), patch.WorkingHours[time.Monday].End)
	assert.Equal(t, types.TimeString("nine"), patch.WorkingHours[time.Tuesday].Start)
}
