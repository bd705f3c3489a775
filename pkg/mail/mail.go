package mail

import (
	"fmt"
	"net/smtp"

	"social_network_service/pkg/logger"

	"go.uber.org/zap"
)

// Sender definition OTP mail delivery
type Sender interface {
	SendOtp(to, otp string) error
}

// SMTPSender 透過 SMTP 寄送驗證碼
type SMTPSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// NewSMTPSender create a SMTPSender
func NewSMTPSender(host string, port int, user, password, from string) *SMTPSender {
	return &SMTPSender{Host: host, Port: port, User: user, Password: password, From: from}
}

// SendOtp send the verification code mail
func (s *SMTPSender) SendOtp(to, otp string) error {
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Your verification code\r\n\r\nYour OTP is %s. It expires in 5 minutes.\r\n",
		s.From, to, otp))

	auth := smtp.PlainAuth("", s.User, s.Password, s.Host)
	if err := smtp.SendMail(addr, auth, s.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send otp mail: %w", err)
	}
	return nil
}

// LogSender 本地開發用，只記 log 不真的寄信
type LogSender struct{}

// SendOtp log the verification code
func (l *LogSender) SendOtp(to, otp string) error {
	logger.Log.Info("otp mail (dev sender)", zap.String("to", to), zap.String("otp", otp))
	return nil
}
