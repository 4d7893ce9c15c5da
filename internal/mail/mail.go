package mail

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// SendMail 通过SSL SMTP发送HTML邮件。
// 配置来自环境变量 SMTP_HOST / SMTP_PORT / SMTP_USER / SMTP_PASS
func SendMail(to, subject, body string) error {
	host := os.Getenv("SMTP_HOST")
	portStr := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")

	if host == "" || user == "" || pass == "" {
		return fmt.Errorf("邮件配置不完整，请检查 SMTP_HOST, SMTP_USER, SMTP_PASS")
	}

	port := 465
	if portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			port = p
		}
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		user, to, subject, body)

	// 163等邮箱的465端口要求SSL直连
	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
		ServerName:         host,
	}

	conn, err := tls.Dial("tcp", fmt.Sprintf("%s:%d", host, port), tlsConfig)
	if err != nil {
		return fmt.Errorf("连接邮件服务器失败: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return fmt.Errorf("创建SMTP客户端失败: %w", err)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", user, pass, host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("邮件认证失败: %w", err)
	}

	if err := client.Mail(user); err != nil {
		return fmt.Errorf("设置发件人失败: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("设置收件人失败: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("获取写入器失败: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("写入邮件内容失败: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("关闭写入器失败: %w", err)
	}

	return client.Quit()
}

// SendDailyReport 向 NOTIFY_EMAILS 配置的邮箱群发每日复盘报告，
// 多个邮箱用逗号分隔
func SendDailyReport(date, htmlBody string) error {
	emails := os.Getenv("NOTIFY_EMAILS")
	if emails == "" {
		return fmt.Errorf("未配置通知邮箱 NOTIFY_EMAILS")
	}

	subject := fmt.Sprintf("【A股交易助手】%s 每日复盘", date)
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
			<h2 style="color: #10b981;">A股交易助手 - 每日复盘</h2>
			%s
			<p style="color: #64748b; font-size: 12px; margin-top: 20px;">
				此邮件由系统自动发送，请勿回复。
			</p>
		</div>
	`, htmlBody)

	var lastErr error
	for _, email := range strings.Split(emails, ",") {
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}
		if err := SendMail(email, subject, body); err != nil {
			lastErr = err
			logrus.Warnf("发送复盘邮件到 %s 失败: %v", email, err)
		} else {
			logrus.Infof("复盘邮件已发送到 %s", email)
		}
	}
	return lastErr
}
