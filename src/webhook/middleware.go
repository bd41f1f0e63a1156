package webhook

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"net/http"

	"github.com/gofiber/fiber/v3"
)

// VerifyKeyMiddleware rejects requests whose ed25519 signature over
// timestamp+body does not verify against the application public key.
func (server *Server) VerifyKeyMiddleware(c fiber.Ctx) error {
	headers := c.GetReqHeaders()
	timestamp, ok := headers["X-Signature-Timestamp"]
	if !ok || len(timestamp) == 0 {
		return c.Status(http.StatusUnauthorized).SendString("missing timestamp signature")
	}
	signature, ok := headers["X-Signature-Ed25519"]
	if !ok || len(signature) == 0 {
		return c.Status(http.StatusUnauthorized).SendString("missing ed25519 signature")
	}
	signatureRaw, err := hex.DecodeString(signature[0])
	if err != nil {
		return c.Status(http.StatusUnauthorized).SendString("malformed signature")
	}
	message := bytes.Join([][]byte{[]byte(timestamp[0]), c.BodyRaw()}, []byte(""))
	if !ed25519.Verify(server.publicKey, message, signatureRaw) {
		return c.Status(http.StatusUnauthorized).SendString("invalid request signature")
	}
	return c.Next()
}
