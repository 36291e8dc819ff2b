package models

import "io"

// Image — метаданные загруженного изображения в объектном хранилище.
type Image struct {
	Key         string
	ContentType string
	Size        int64
}

// ImageObject — поток содержимого изображения. Body закрывает вызывающий.
type ImageObject struct {
	Image
	Body io.ReadCloser
}
