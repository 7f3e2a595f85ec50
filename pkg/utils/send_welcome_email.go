package utils

import (
	"fmt"
	"time"
)

func SendWelcomeEmail(to, username string) error {
	subject := fmt.Sprintf("Welcome to Spendtrack, %s!", username)

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
		<meta charset="UTF-8" />
		<title>Welcome to Spendtrack</title>
		<style>
			body { font-family: Arial, sans-serif; background-color: #f9fbfa; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #ffffff; border-radius: 12px; overflow: hidden; border-top: 6px solid #007bff; }
			.header { background-color: #007bff; color: #ffffff; text-align: center; padding: 30px 20px; }
			.header h1 { margin: 0; font-size: 24px; }
			.content { padding: 30px 40px; color: #333333; }
			.message { font-size: 15px; line-height: 1.8; color: #444444; margin-bottom: 14px; }
			ul { padding-left: 22px; }
			ul li { margin-bottom: 8px; font-size: 14px; color: #555555; }
			.footer { background: #f0f4f8; text-align: center; padding: 20px; font-size: 13px; color: #666666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>Welcome to Spendtrack</h1>
			</div>
			<div class="content">
				<p class="message">Hey %s,</p>
				<p class="message">
					Your account is ready. Spendtrack keeps every expense, income,
					debt and repayment in one place so you always know where your
					money went.
				</p>
				<p class="message"><b>A few things to try first:</b></p>
				<ul>
					<li>Create categories for the spending you want to track.</li>
					<li>Tag expenses to slice reports your own way.</li>
					<li>Check the monthly report for per-day and per-category totals.</li>
				</ul>
			</div>
			<div class="footer">
				&copy; %d Spendtrack
			</div>
		</div>
	</body>
	</html>
	`, username, time.Now().Year())

	return SendEmail(to, subject, body)
}
