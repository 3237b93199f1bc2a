package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cqbsim-backend/models"
)

func TestParseSensors(t *testing.T) {
	flags, err := parseSensors("sonar, Lidar,camera,detection")
	require.NoError(t, err)
	assert.Equal(t, models.SensorFlags{Sonar: true, Lidar: true, Camera: true, Detection: true}, flags)

	flags, err = parseSensors("")
	require.NoError(t, err)
	assert.Equal(t, models.SensorFlags{}, flags)

	_, err = parseSensors("sonar,radar")
	assert.Error(t, err)
}
