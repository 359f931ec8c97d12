package lib

import (
	"encoding/json"
	"foodievent/src/types"
	"log"
	"os"

	"github.com/yeqown/go-qrcode"
)

// RenderETicket encodes payload as a QR code and returns the image bytes.
func RenderETicket(payload types.ETicketPayload) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	qrc, err := qrcode.New(string(data))
	if err != nil {
		log.Printf("could not generate QRCode: %v", err)
		return nil, err
	}
	f, err := os.CreateTemp("", "eticket-*.jpeg")
	if err != nil {
		return nil, err
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	if err := qrc.Save(path); err != nil {
		log.Printf("could not save image: %v", err)
		return nil, err
	}
	return os.ReadFile(path)
}
