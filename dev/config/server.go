package config

const SERVER_YML = `
caru:
  listener:
    port: 8000
  cron:
    timeZone: "UTC"
  cors:
    allowedOrigins:
      - "https://localhost:5100"
      - "https://127.0.0.1:5100"
      - "https://120.232.252.116:5100"

monitor:
  enabled: true
  schedule: "*/1 * * * *"

owner:
  name: "Demo User"
  phone: "+15005550006"
  email: "demo@example.com"

twilio:
  accountSid:
  authToken:
  messagingServiceSid:
`
