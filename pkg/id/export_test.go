package id

var NewAt = newAt
