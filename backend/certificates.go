package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type CertificateService struct {
	client *Client
}

type Certificate struct {
	ID       int       `json:"id"`
	CourseID int       `json:"course_id"`
	Course   string    `json:"course"`
	IssuedAt time.Time `json:"issued_at"`
}

// Generate asks the backend to issue a completion certificate for a course.
func (s *CertificateService) Generate(ctx context.Context, courseID int) (Certificate, error) {
	var cert Certificate
	body := map[string]int{"course_id": courseID}
	err := s.client.do(ctx, http.MethodPost, "certificates", nil, body, &cert)
	return cert, err
}

// Download fetches the certificate PDF as a raw byte stream.
func (s *CertificateService) Download(ctx context.Context, courseID int) ([]byte, string, error) {
	return s.client.download(ctx, fmt.Sprintf("certificates/course/%d/download", courseID))
}
