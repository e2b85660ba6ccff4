package system

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// WriteBrandQR сохраняет PNG с QR-кодом ссылки бренда для финальной сцены.
func WriteBrandQR(url, path string, size int) error {
	if url == "" {
		return fmt.Errorf("пустая ссылка для QR-кода")
	}
	if size <= 0 {
		size = 256
	}
	if err := qrcode.WriteFile(url, qrcode.Medium, size, path); err != nil {
		return fmt.Errorf("не удалось создать QR-код: %w", err)
	}
	return nil
}
