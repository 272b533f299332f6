package mailer

const verificationEmailTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Verify your email</h2>
  <p>Thanks for signing up! Enter the code below to verify your email address:</p>
  <p style="font-size: 24px; font-weight: bold; letter-spacing: 2px;">{verificationCode}</p>
  <p>This code expires in 24 hours. If you didn't create an account, you can ignore this email.</p>
</body>
</html>`

const welcomeEmailTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <p>Hi {fullname},</p>
  <p>Welcome to our service! We're glad to have you on board.</p>
</body>
</html>`

const passwordResetRequestTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Password reset request</h2>
  <p>We received a request to reset your password. Click the link below to choose a new one:</p>
  <p><a href="{resetURL}">Reset your password</a></p>
  <p>This link expires in 1 hour. If you didn't request a reset, you can ignore this email.</p>
</body>
</html>`

const passwordResetSuccessTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Password reset successful</h2>
  <p>Your password has been changed. If this wasn't you, contact support immediately.</p>
</body>
</html>`
