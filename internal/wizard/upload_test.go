package wizard

import (
	"errors"
	"testing"

	"github.com/Windi-Fikriyansyah/showme/internal/models"
)

func TestUploadPolicyCheck(t *testing.T) {
	p := DefaultUploadPolicies()
	cases := []struct {
		slot FileSlot
		file models.FileRef
		want error
	}{
		{SlotProfilePhoto, models.FileRef{Name: "me.png", Size: 1024, ContentType: "image/png"}, nil},
		{SlotProfilePhoto, models.FileRef{Name: "me.png", Size: 6 * mb, ContentType: "image/png"}, ErrFileTooLarge},
		{SlotProfilePhoto, models.FileRef{Name: "me.pdf", Size: 10, ContentType: "application/pdf"}, ErrFileType},
		{SlotIntroVideo, models.FileRef{Name: "hi.mp4", Size: 40 * mb, ContentType: "video/mp4"}, nil},
		{SlotCV, models.FileRef{Name: "CV.PDF", Size: 100, ContentType: ""}, nil},
		{SlotCV, models.FileRef{Name: "cv.txt", Size: 100, ContentType: "text/plain"}, ErrFileType},
	}
	for _, tc := range cases {
		err := p[tc.slot].Check(tc.file)
		if tc.want == nil && err != nil {
			t.Errorf("%s %s: unexpected error %v", tc.slot, tc.file.Name, err)
		}
		if tc.want != nil && !errors.Is(err, tc.want) {
			t.Errorf("%s %s: err = %v, want %v", tc.slot, tc.file.Name, err, tc.want)
		}
	}
}

func TestRejectedFileLeavesDraftUntouched(t *testing.T) {
	c := NewController(nil, nil)
	ok := models.FileRef{Name: "me.jpg", Size: 100, ContentType: "image/jpeg"}
	if err := c.SetFile(SlotProfilePhoto, ok); err != nil {
		t.Fatal(err)
	}
	big := models.FileRef{Name: "big.jpg", Size: 50 * mb, ContentType: "image/jpeg"}
	if err := c.SetFile(SlotProfilePhoto, big); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("err = %v", err)
	}
	if got := c.Draft().ProfilePhoto; got == nil || got.Name != "me.jpg" {
		t.Fatalf("photo = %+v", got)
	}
	if err := c.ClearFile(SlotProfilePhoto); err != nil {
		t.Fatal(err)
	}
	if c.Draft().ProfilePhoto != nil {
		t.Fatal("photo not cleared")
	}
	if err := c.SetFile("avatar", ok); !errors.Is(err, ErrUnknownSlot) {
		t.Fatalf("err = %v", err)
	}
}
