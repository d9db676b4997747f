package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

type frame struct {
	ID     string    `json:"id"`
	SentAt time.Time `json:"sent_at"`
	Tags   []string  `json:"tags,omitempty"`
}

func TestCodecs_AreRegistered(t *testing.T) {
	req := require.New(t)

	req.NotNil(encoding.GetCodec(JSONName))
	req.NotNil(encoding.GetCodec(CBORName))
}

func TestCodecs_RoundTrip(t *testing.T) {
	at := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	in := frame{ID: "m-1", SentAt: at, Tags: []string{"dm"}}

	for _, c := range []encoding.Codec{JSON{}, CBOR{}} {
		t.Run(c.Name(), func(t *testing.T) {
			req := require.New(t)
			data, err := c.Marshal(&in)
			req.NoError(err)

			var out frame
			req.NoError(c.Unmarshal(data, &out))
			req.Equal(in.ID, out.ID)
			req.True(in.SentAt.Equal(out.SentAt))
			req.Equal(in.Tags, out.Tags)
		})
	}
}

func TestCodecs_EmptyPayload(t *testing.T) {
	req := require.New(t)
	var out frame

	req.NoError(JSON{}.Unmarshal(nil, &out))
	req.NoError(CBOR{}.Unmarshal(nil, &out))
	req.Empty(out.ID)
}
