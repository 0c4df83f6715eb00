package utils

import (
	"fmt"
	"image"
	_ "image/png" // регистрирует PNG декодер
	"os"
)

// LoadImage читает и декодирует изображение с диска.
func LoadImage(filePath string) (image.Image, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filePath, err)
	}
	return img, nil
}
