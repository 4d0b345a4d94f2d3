package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitVoteEndpoint(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.login(t, "owner@example.com")
	poll := createPoll(t, env, owner, "Best season?", []string{"Spring", "Summer"})
	id := poll["id"].(string)

	// anonymous vote
	w := env.do(t, "POST", "/api/v1/polls/"+id+"/votes", "", gin.H{"optionIndex": 0})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	v := decodeBody(t, w)
	assert.Nil(t, v["userId"])
	assert.Equal(t, float64(0), v["optionIndex"])

	// authenticated vote
	voter, _ := env.login(t, "voter@example.com")
	w = env.do(t, "POST", "/api/v1/polls/"+id+"/votes", voter, gin.H{"optionIndex": 1})
	require.Equal(t, http.StatusCreated, w.Code)
	v = decodeBody(t, w)
	assert.Equal(t, "sub-voter@example.com", v["userId"])
}

func TestSubmitVoteValidation(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.login(t, "owner@example.com")
	poll := createPoll(t, env, owner, "Q?", []string{"A", "B"})
	id := poll["id"].(string)

	for _, idx := range []int{-1, 2, 50} {
		w := env.do(t, "POST", "/api/v1/polls/"+id+"/votes", "", gin.H{"optionIndex": idx})
		assert.Equal(t, http.StatusBadRequest, w.Code, "index %d", idx)
	}

	// missing option index
	w := env.do(t, "POST", "/api/v1/polls/"+id+"/votes", "", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// zero must be accepted, not treated as missing
	w = env.do(t, "POST", "/api/v1/polls/"+id+"/votes", "", gin.H{"optionIndex": 0})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, "POST", "/api/v1/polls/no-such-poll/votes", "", gin.H{"optionIndex": 0})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResultsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.login(t, "owner@example.com")
	poll := createPoll(t, env, owner, "Best season?", []string{"Spring", "Summer", "Autumn"})
	id := poll["id"].(string)

	for _, idx := range []int{1, 1, 2} {
		w := env.do(t, "POST", "/api/v1/polls/"+id+"/votes", "", gin.H{"optionIndex": idx})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	// tallies are public
	w := env.do(t, "GET", "/api/v1/polls/"+id+"/results", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, float64(3), body["total"])
	counts, _ := body["counts"].([]interface{})
	require.Len(t, counts, 3)
	first := counts[0].(map[string]interface{})
	assert.Equal(t, "Spring", first["option"])
	assert.Equal(t, float64(0), first["votes"])
	second := counts[1].(map[string]interface{})
	assert.Equal(t, float64(2), second["votes"])

	w = env.do(t, "GET", "/api/v1/polls/no-such-poll/results", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportAccessControl(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.login(t, "owner@example.com")
	other, _ := env.login(t, "other@example.com")
	poll := createPoll(t, env, owner, "Q?", []string{"A", "B"})
	id := poll["id"].(string)

	w := env.do(t, "POST", "/api/v1/polls/"+id+"/export", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, "POST", "/api/v1/polls/"+id+"/export", other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, "POST", "/api/v1/polls/no-such-poll/export", owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// the test env carries no object storage
	w = env.do(t, "POST", "/api/v1/polls/"+id+"/export", owner, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
