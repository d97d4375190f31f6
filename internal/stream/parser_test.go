package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoRecords = "data: {\"message\":{\"id\":\"m1\",\"content\":{\"parts\":[\"hi\"]},\"end_turn\":false},\"conversation_id\":\"c1\"}\n\n" +
	"data: {\"message\":{\"id\":\"m2\",\"content\":{\"parts\":[\"hi there\"]},\"end_turn\":true},\"conversation_id\":\"c1\"}"

func TestSplitChunks(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: []string{}},
		{name: "done only", in: "data: [DONE]", want: []string{}},
		{name: "done with newlines", in: "data: [DONE]\n\n", want: []string{}},
		{name: "newlines only", in: "\n\n\n", want: []string{}},
		{name: "two records and done", in: "data: {\"a\":1}\n\ndata: {\"b\":\n2}\n\ndata: [DONE]\n\n", want: []string{`{"a":1}`, `{"b":2}`}},
		{name: "leading text kept", in: "junk data: x", want: []string{"junk ", "x"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SplitChunks(tc.in))
		})
	}
}

func TestParseStreamResponse_NoData(t *testing.T) {
	for _, in := range []string{"", "data: [DONE]", "data: \n\ndata: [DONE]\n\n", "\n"} {
		msg, err := ParseStreamResponse(in)
		require.NoError(t, err, in)
		assert.Nil(t, msg, in)
	}
}

func TestParseStreamResponse_LastRecordWins(t *testing.T) {
	msg, err := ParseStreamResponse(twoRecords)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, ParsedMessage{
		Message:        "hi there",
		MessageID:      "m2",
		ConversationID: "c1",
		IsDone:         true,
	}, *msg)
}

func TestParseStreamResponse_TrailingDone(t *testing.T) {
	msg, err := ParseStreamResponse(twoRecords + "\n\ndata: [DONE]\n\n")
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "m2", msg.MessageID)
}

func TestParseStreamResponse_EndTurn(t *testing.T) {
	cases := []struct {
		name    string
		endTurn string
		want    bool
	}{
		{name: "absent", endTurn: "", want: false},
		{name: "true", endTurn: `,"end_turn":true`, want: true},
		{name: "false", endTurn: `,"end_turn":false`, want: false},
		{name: "null", endTurn: `,"end_turn":null`, want: false},
		{name: "string true", endTurn: `,"end_turn":"true"`, want: false},
		{name: "number", endTurn: `,"end_turn":1`, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := `data: {"message":{"id":"m","content":{"parts":["x"]}` + tc.endTurn + `},"conversation_id":"c"}`
			msg, err := ParseStreamResponse(in)
			require.NoError(t, err)
			require.NotNil(t, msg)
			assert.Equal(t, tc.want, msg.IsDone)
		})
	}
}

func TestParseStreamResponse_NewlinesInsideRecord(t *testing.T) {
	in := "data: {\"message\":\n{\"id\":\"m\",\"content\":{\"parts\":[\"a\nb\"]}},\n\"conversation_id\":\"c\"}\n\n"
	msg, err := ParseStreamResponse(in)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "ab", msg.Message)
}

func TestParseStreamResponse_DecodeErrors(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{name: "not json", in: "data: hello"},
		{name: "not json after valid", in: twoRecords + "\n\ndata: {broken"},
		{name: "null payload", in: "data: null"},
		{name: "missing message", in: `data: {"conversation_id":"c"}`},
		{name: "missing content", in: `data: {"message":{"id":"m"},"conversation_id":"c"}`},
		{name: "empty parts", in: `data: {"message":{"id":"m","content":{"parts":[]}},"conversation_id":"c"}`},
		{name: "missing conversation id", in: `data: {"message":{"id":"m","content":{"parts":["x"]}}}`},
		{name: "upstream error", in: `data: {"error":"rate limited"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := ParseStreamResponse(tc.in)
			assert.ErrorIs(t, err, ErrDecode)
			assert.Nil(t, msg)
		})
	}
}

func TestParseStreamResponse_MissingMessageIDAllowed(t *testing.T) {
	msg, err := ParseStreamResponse(`data: {"message":{"content":{"parts":["x"]}},"conversation_id":"c"}`)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "", msg.MessageID)
	assert.Equal(t, "x", msg.Message)
}
