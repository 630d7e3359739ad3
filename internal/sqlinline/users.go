package sqlinline

const QSelectProfileByID = `--sql 253ee2af-a95d-4840-8acd-28d7a5d23f3d
select id::text, email, full_name, role, verification_status, coalesce(push_token, ''), locale, updated_at
from profiles
where id = $1::uuid
limit 1;
`

const QSelectProfileForUpdate = `--sql 165c7a0d-d367-4f18-b31c-317f5a67ef45
select id::text, email, full_name, role, verification_status, coalesce(push_token, ''), locale, updated_at
from profiles
where id = $1::uuid
for update;
`

const QUpdateVerification = `--sql fef75a34-80ee-4cf4-978e-b39ae0065d7e
update profiles
set verification_status = $2::text, rejection_reason = nullif($3::text, ''), updated_at = now()
where id = $1::uuid
returning id::text, email, full_name, role, verification_status, coalesce(push_token, ''), locale, updated_at;
`

const QJoinDefaultForums = `--sql 62d2ae13-69f7-45e3-a853-035d2b863aec
insert into forum_members (forum, user_id, joined_at)
select f.id, $1::uuid, now()
from forums f
where f.is_default
on conflict (forum, user_id) do nothing;
`

const QSelectContact = `--sql 52112c2d-9afe-40c6-866d-96da7484452e
select id::text, email, full_name, coalesce(push_token, ''), locale
from profiles
where id = $1::uuid
limit 1;
`

const QSelectProfileRole = `--sql 729bc873-dd5e-4be6-a569-8367526c01ad
select role
from profiles
where id = $1::uuid
limit 1;
`
