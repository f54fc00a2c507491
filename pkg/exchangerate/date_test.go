package exchangerate_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exchange-rates/pkg/exchangerate"
)

func TestParseDate(t *testing.T) {
	d, err := exchangerate.ParseDate("2021-03-02")

	require.NoError(t, err)
	assert.Equal(t, exchangerate.NewDate(2021, time.March, 2), d)
	assert.Equal(t, "2021-03-02", d.String())

	_, err = exchangerate.ParseDate("02/03/2021")
	assert.Error(t, err)
}

func TestDateOf_DropsClock(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	d := exchangerate.DateOf(time.Date(2021, time.March, 2, 23, 30, 0, 0, loc))

	assert.Equal(t, exchangerate.NewDate(2021, time.March, 2), d)
}

func TestDate_JSON(t *testing.T) {
	var payload struct {
		Date  exchangerate.Date `json:"date"`
		Empty exchangerate.Date `json:"empty"`
	}
	err := json.Unmarshal([]byte(`{"date":"2021-03-02","empty":null}`), &payload)

	require.NoError(t, err)
	assert.Equal(t, exchangerate.NewDate(2021, time.March, 2), payload.Date)
	assert.True(t, payload.Empty.IsZero())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2021-03-02","empty":null}`, string(out))
}
