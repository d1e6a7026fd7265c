package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyMedia(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path string
		want MediaType
	}{
		{"/uploads/a.jpg", MediaImage},
		{"/uploads/a.jpeg", MediaImage},
		{"/uploads/a.png", MediaImage},
		{"/uploads/a.gif", MediaImage},
		{"/uploads/a.PNG", MediaImage},
		{"/uploads/a.JpEg", MediaImage},
		{"/uploads/b.mp4", MediaVideo},
		{"/uploads/b.avi", MediaVideo},
		{"/uploads/b.mov", MediaVideo},
		{"/uploads/b.mkv", MediaVideo},
		{"/uploads/b.MP4", MediaVideo},
		{"/uploads/c.pdf", MediaUnknown},
		{"/uploads/c.webp", MediaUnknown},
		{"/uploads/noextension", MediaUnknown},
		{"", MediaUnknown},
		{"/uploads/trailingdot.", MediaUnknown},
		{"/uploads/a.b.c.gif", MediaImage},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ClassifyMedia(tc.path))
		})
	}
}
