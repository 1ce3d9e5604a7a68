package model

import (
    "encoding/json"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestInterestsAcceptsStringOrList(t *testing.T) {
    tests := []struct {
        name string
        body string
        want Interests
    }{
        {"string", `{"interests":"food, art"}`, "food, art"},
        {"list", `{"interests":["food"," art ",""]}`, "food, art"},
        {"empty list", `{"interests":[]}`, ""},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            var in TripInput
            require.NoError(t, json.Unmarshal([]byte(tt.body), &in))
            assert.Equal(t, tt.want, in.Interests)
        })
    }
}

func TestInterestsRejectsOtherTypes(t *testing.T) {
    var in TripInput
    assert.Error(t, json.Unmarshal([]byte(`{"interests":42}`), &in))
}

func TestUserIdentityOmitsHash(t *testing.T) {
    u := User{ID: 7, Name: "Ann", Email: "ann@x.com", PasswordHash: "$2a$..."}
    b, err := json.Marshal(u.Identity())
    require.NoError(t, err)
    assert.JSONEq(t, `{"id":7,"name":"Ann","email":"ann@x.com"}`, string(b))
}
